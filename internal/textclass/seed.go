package textclass

import "github.com/Veraticus/spice-insight/internal/model"

var seedCorpus = []model.TrainingExample{
	{Title: "Dinner at Italian restaurant", Description: "Pasta, drinks and dessert with friends", Label: model.CategoryFood},
	{Title: "Weekly grocery run", Description: "Bought vegetables, fruits and snacks", Label: model.CategoryFood},
	{Title: "Uber to airport", Description: "Ride share trip for business travel", Label: model.CategoryTravel},
	{Title: "Flight to New York", Description: "Round trip ticket for conference", Label: model.CategoryTravel},
	{Title: "Electricity bill", Description: "Monthly utility payment", Label: model.CategoryBills},
	{Title: "Internet subscription", Description: "Fiber plan invoice for November", Label: model.CategoryBills},
	{Title: "New sneakers", Description: "Online shopping for running shoes", Label: model.CategoryShopping},
	{Title: "Bought gifts", Description: "Birthday presents ordered online", Label: model.CategoryShopping},
}

// SeedCorpus returns a copy of the built-in training examples.
func SeedCorpus() []model.TrainingExample {
	out := make([]model.TrainingExample, len(seedCorpus))
	copy(out, seedCorpus)
	return out
}
