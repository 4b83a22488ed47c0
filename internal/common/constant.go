package common

// AppName is shown in prompts and greetings.
const AppName = "Kasa"

// SecurityQuestions are the preset recovery questions offered during setup.
// Users can also type their own question.
var SecurityQuestions = []string{
	"What was the name of your first pet?",
	"What was the name of your primary school teacher?",
	"In which city were you born?",
	"What is your favourite food?",
}
