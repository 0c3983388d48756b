package domain

// Outcome is the result of handling one newly detected object.
type Outcome string

const (
	OutcomeStored  Outcome = "stored"
	OutcomeSkipped Outcome = "skipped" // summarizer returned no content
	OutcomeFailed  Outcome = "failed"
)

// Environment names recognised by the app config.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// ContentTypePDF is the content type of source and analysis documents.
const ContentTypePDF = "application/pdf"
