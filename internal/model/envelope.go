package model

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every response body
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RecipeData is the data payload of create and read-one
type RecipeData struct {
	Recipe *Recipe `json:"recipe"`
}

// RecipesData is the data payload of read-all
type RecipesData struct {
	Recipes []Recipe `json:"recipes"`
}

// Success builds a success envelope
func Success(message string, data interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data}
}

// Failure builds an error envelope without data
func Failure(message string) Envelope {
	return Envelope{Status: StatusError, Message: message}
}
