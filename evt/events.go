package evt

import (
	"github.com/asaskevich/EventBus"
)

const (
	// ApplicationStarted fires on start of the application. Parameter: version number, build time
	ApplicationStarted = "application:started"

	// ValidationFinished fires after each validation run. Parameter: outcome, duration
	ValidationFinished = "validation:finished"

	// CheckEvaluated fires for each evaluated check of a run. Parameter: check name, ok
	CheckEvaluated = "validation:checkEvaluated"
)

// Outcomes of a validation run
const (
	OutcomeCompleted          = "completed"
	OutcomeInvalidInput       = "invalid_input"
	OutcomePrerequisiteFailed = "prerequisite_failed"
	OutcomeInternalError      = "internal_error"
)

// nolint
var evtBus = EventBus.New()

func Bus() EventBus.Bus {
	return evtBus
}
