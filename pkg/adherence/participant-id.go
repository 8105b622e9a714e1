package adherence

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/case-framework/study-adherence/pkg/adherence/types"
)

// ProfileIDtoParticipantID derives the study specific participant ID of a profile.
func ProfileIDtoParticipantID(profileID string, globalSecret string, studySecret string, method string) (string, error) {
	if profileID == "" {
		return "", errors.New("profile ID is empty")
	}

	switch method {
	case types.ID_MAPPING_METHOD_SAME:
		return profileID, nil
	case types.ID_MAPPING_METHOD_SHA_224:
		h := sha256.Sum224([]byte(studySecret + profileID + globalSecret))
		return hex.EncodeToString(h[:]), nil
	case types.ID_MAPPING_METHOD_SHA_256, "":
		h := sha256.Sum256([]byte(studySecret + profileID + globalSecret))
		return hex.EncodeToString(h[:]), nil
	default:
		return "", fmt.Errorf("unknown id mapping method: %s", method)
	}
}

func participantIDForProfile(study types.StudyInfo, profileID string) (string, error) {
	return ProfileIDtoParticipantID(profileID, globalSecret, study.SecretKey, study.Configs.IdMappingMethod)
}
