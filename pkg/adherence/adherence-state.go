package adherence

import (
	"errors"
	"strings"
	"time"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// ResolveTimeZone loads the IANA zone of the client. An empty name falls back to the default zone.
func ResolveTimeZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultTimeZone, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Join(ErrInvalidTimeZone, err)
	}
	return loc, nil
}

// BuildAdherenceState turns stored inputs into the engine's view of the participant.
func BuildAdherenceState(studyKey string, inputs types.ParticipantAdherenceInputs, loc *time.Location, at time.Time) types.AdherenceState {
	timestamps := make(map[string]time.Time, len(inputs.EventTimestamps))
	for eventID, ts := range inputs.EventTimestamps {
		if ts <= 0 {
			continue
		}
		timestamps[eventID] = time.Unix(ts, 0).UTC()
	}

	return types.AdherenceState{
		Participant: types.ParticipantRef{
			ParticipantID: inputs.ParticipantID,
			StudyKey:      studyKey,
		},
		TestAccount:       inputs.TestAccount,
		ClientTimeZone:    loc,
		Now:               at,
		StudyStartEventID: inputs.StudyStartEventID,
		EventTimestamps:   timestamps,
	}
}
