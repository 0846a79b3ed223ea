package outlook

import (
	"fmt"

	"github.com/custodia-labs/outlook-agenda/internal/core/domain"
)

// restrictLayout is the date literal accepted by Items.Restrict.
// Outlook expects a 12-hour clock with an AM/PM suffix.
const restrictLayout = "01/02/2006 03:04 PM"

// BuildRestriction returns the Items.Restrict filter selecting appointments
// that start at or after r.Start and end at or before r.End.
func BuildRestriction(r domain.DateRange) string {
	return fmt.Sprintf("[Start] >= '%s' AND [End] <= '%s'",
		r.Start.Format(restrictLayout), r.End.Format(restrictLayout))
}
