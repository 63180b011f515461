package exports

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Menu is one entry of the MenuExport JSON file. Field names follow the
// export's camelCase keys.
type Menu struct {
	GUID                  uuid.UUID `json:"guid"`
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	IDString              string    `json:"idString"`
	OrderableOnline       bool      `json:"orderableOnline"`
	OrderableOnlineStatus string    `json:"orderableOnlineStatus"`
	Visibility            string    `json:"visibility"`

	StartTime     *int64  `json:"startTime"`
	EndTime       *int64  `json:"endTime"`
	StartTimeHHMM *string `json:"startTimeHHmm"`
	EndTimeHHMM   *string `json:"endTimeHHmm"`

	StartTimeLocalStandardTime     *int64  `json:"startTimeLocalStandardTime"`
	EndTimeLocalStandardTime       *int64  `json:"endTimeLocalStandardTime"`
	StartTimeHHMMLocalStandardTime *string `json:"startTimeHHmmLocalStandardTime"`
	EndTimeHHMMLocalStandardTime   *string `json:"endTimeHHmmLocalStandardTime"`

	AvailableAllTimes   bool     `json:"availableAllTimes"`
	AvailableAllDays    bool     `json:"availableAllDays"`
	DaysAvailableBits   int16    `json:"daysAvailableBits"`
	DaysAvailableString []string `json:"daysAvailableString"`
}

// ReadMenus decodes a MenuExport JSON array. Any decode failure is a setup
// error for the whole file; menu entries carry no cross-references to other
// sources, so there is no per-row recovery to do here.
func ReadMenus(path string) ([]Menu, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open menu export")
	}
	defer func() { _ = f.Close() }()

	var menus []Menu
	if err := json.NewDecoder(f).Decode(&menus); err != nil {
		return nil, errors.Wrap(err, "failed to decode menu export")
	}
	return menus, nil
}
