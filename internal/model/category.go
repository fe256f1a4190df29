package model

// Category is an open label. The seed corpus uses Food, Travel, Bills and
// Shopping, but retraining can introduce any label a caller supplies.
type Category string

// Seed categories.
const (
	CategoryFood     Category = "Food"
	CategoryTravel   Category = "Travel"
	CategoryBills    Category = "Bills"
	CategoryShopping Category = "Shopping"
)

// TrainingExample is a single labeled expense used to fit the categorizer.
type TrainingExample struct {
	Title       string
	Description string
	Label       Category
}

// Document joins title and description the way classification does.
func (e TrainingExample) Document() string {
	return Document(e.Title, e.Description)
}

// Document builds the text that gets featurized for a title/description pair.
func Document(title, description string) string {
	return title + " " + description
}
