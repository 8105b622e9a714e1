package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information a participant token encodes. Tokens are issued by the participant API of the
// platform; the adherence service only validates them.
type ParticipantUserClaims struct {
	InstanceID      string            `json:"instance_id,omitempty"`
	ProfileID       string            `json:"profile_id,omitempty"`
	SessionID       string            `json:"session_id,omitempty"`
	Payload         map[string]string `json:"payload,omitempty"`
	OtherProfileIDs []string          `json:"other_profile_ids,omitempty"`
	jwt.RegisteredClaims
}

// HasProfile is true for the main profile and any of the other profiles of the account.
func (c ParticipantUserClaims) HasProfile(profileID string) bool {
	if profileID == "" {
		return false
	}
	if c.ProfileID == profileID {
		return true
	}
	for _, id := range c.OtherProfileIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

func GenerateNewParticipantUserToken(
	expiresIn time.Duration,
	userID string,
	instanceID string,
	profileID string,
	otherProfileIDs []string,
	payload map[string]string,
	sessionID string,
	secretKey string,
) (tokenString string, err error) {
	claims := ParticipantUserClaims{
		InstanceID:      instanceID,
		ProfileID:       profileID,
		SessionID:       sessionID,
		Payload:         payload,
		OtherProfileIDs: otherProfileIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateParticipantUserToken(tokenString string, secretKey string) (claims *ParticipantUserClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &ParticipantUserClaims{}, hmacKeyFunc(secretKey))
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*ParticipantUserClaims)
	valid = valid && token.Valid
	return
}

func hmacKeyFunc(secretKey string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}
}
