package engine

import "surveyflow/internal/model"

// Notifier receives user-facing progression events
type Notifier interface {
	Notify(n model.Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n model.Notification)

func (f NotifierFunc) Notify(n model.Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(model.Notification) {}

func validationFailure() model.Notification {
	return model.Notification{
		Kind:        model.NotifyValidationFailure,
		Title:       "Please answer all questions",
		Description: "All questions are required before moving to the next theme.",
		Severity:    model.SeverityError,
	}
}

func persistenceSuccess() model.Notification {
	return model.Notification{
		Kind:        model.NotifyPersistenceSuccess,
		Title:       "Progress saved",
		Description: "Your answers have been saved.",
		Severity:    model.SeveritySuccess,
	}
}

func persistenceFailure() model.Notification {
	return model.Notification{
		Kind:        model.NotifyPersistenceFailure,
		Title:       "Could not save progress",
		Description: "Your answers were not saved. Please try again.",
		Severity:    model.SeverityError,
	}
}
