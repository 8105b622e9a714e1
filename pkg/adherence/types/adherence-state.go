package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdherenceState is the participant context a report is computed for.
type AdherenceState struct {
	Participant       ParticipantRef
	TestAccount       bool
	ClientTimeZone    *time.Location
	Now               time.Time
	StudyStartEventID string
	EventTimestamps   map[string]time.Time
}

// TimestampFor returns the resolved timestamp of the event, if it ever fired.
func (s AdherenceState) TimestampFor(eventID string) (time.Time, bool) {
	if eventID == "" {
		return time.Time{}, false
	}
	ts, ok := s.EventTimestamps[eventID]
	if !ok || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}

func (s AdherenceState) Location() *time.Location {
	if s.ClientTimeZone == nil {
		return time.UTC
	}
	return s.ClientTimeZone
}

func (s AdherenceState) Today() LocalDate {
	return LocalDateOf(s.Now, s.Location())
}

// ParticipantAdherenceInputs is what the per-event-stream computation stores for a participant.
type ParticipantAdherenceInputs struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ParticipantID     string             `bson:"participantID" json:"participantID"`
	TestAccount       bool               `bson:"testAccount" json:"testAccount"`
	StudyStartEventID string             `bson:"studyStartEventId" json:"studyStartEventId"`
	EventTimestamps   map[string]int64   `bson:"eventTimestamps" json:"eventTimestamps"` // unix seconds
	EventStreams      EventStreamReport  `bson:"eventStreams" json:"eventStreams"`
	ModifiedAt        int64              `bson:"modifiedAt" json:"modifiedAt"`
}

// StoredStudyAdherenceReport wraps a computed report as cached in the database.
type StoredStudyAdherenceReport struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	ParticipantID    string               `bson:"participantID" json:"participantID"`
	CreatedAt        int64                `bson:"createdAt" json:"createdAt"`
	Progression      Progression          `bson:"progression" json:"progression"`
	AdherencePercent *int                 `bson:"adherencePercent,omitempty" json:"adherencePercent,omitempty"`
	SearchableLabels []string             `bson:"searchableLabels" json:"searchableLabels"` // labels of the current week snapshot
	Report           StudyAdherenceReport `bson:"report" json:"report"`
}

const (
	STUDY_STATUS_ACTIVE = "active"
)

const (
	ID_MAPPING_METHOD_SAME    = "same"
	ID_MAPPING_METHOD_SHA_224 = "sha-224"
	ID_MAPPING_METHOD_SHA_256 = "sha-256"

	DEFAULT_ID_MAPPING_METHOD = ID_MAPPING_METHOD_SHA_256
)

// StudyInfo is the subset of the study document needed to resolve participant IDs.
type StudyInfo struct {
	Key       string `bson:"key" json:"key"`
	SecretKey string `bson:"secretKey" json:"-"`
	Status    string `bson:"status" json:"status"`
	Configs   struct {
		IdMappingMethod string `bson:"idMappingMethod" json:"idMappingMethod"`
	} `bson:"configs" json:"configs"`
}
