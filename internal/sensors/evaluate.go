// Package sensors derives alert conditions from the appliance's raw
// sensor readings. Evaluation is a pure function of the current reading;
// it never fails and never touches vision results.
package sensors

import (
	"github.com/smartfridge/fridge-monitor-service/internal/models"
)

// gasAlertThreshold is the gas concentration (percent) above which the
// fridge is considered unsafe regardless of door state.
const gasAlertThreshold = 50

// Evaluate maps a gas-level reading and a door status to an alert state.
// First match wins: high gas beats an open door beats all-clear. Missing
// or malformed fields arrive as zero values and evaluate as non-alerting.
func Evaluate(gasLevelPercent float64, doorStatus string) models.AlertState {
	switch {
	case gasLevelPercent > gasAlertThreshold:
		return models.AlertState{IsAlert: true, AlertReason: "High gas level detected"}
	case doorStatus == "open":
		return models.AlertState{IsAlert: true, AlertReason: "Door is open"}
	default:
		return models.AlertState{AlertReason: "All clear"}
	}
}
