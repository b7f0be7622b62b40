package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassField       ChromeClass = "fd-field"
	ClassLabel       ChromeClass = "fd-label"
	ClassRequired    ChromeClass = "fd-required"
	ClassDescription ChromeClass = "fd-description"
	ClassError       ChromeClass = "fd-error"
	ClassProgress    ChromeClass = "fd-progress"
	ClassProgressBar ChromeClass = "fd-progress__bar"
	ClassProgressTxt ChromeClass = "fd-progress__label"
)
