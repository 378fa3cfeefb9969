/* participants.go
 * Contains the API methods for registration, authentication, profiles and dependents
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"confidence-pool/api/shared"
	"confidence-pool/api/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minDisplayNameLength   = 2
	maxDisplayNameLength   = 50
	minDependentNameLength = 2
)

// Register creates a participant and issues their credential token
// Preconditions: Receives context and the registration details. A display name is required
// Postconditions: Returns the token and the created participant, or an error if it occurs
func (a *API) Register(ctx context.Context, req RegisterRequest) (Registration, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if err := checkDisplayName(displayName); err != nil {
		return Registration{}, err
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !emailPattern.MatchString(email) {
		return Registration{}, fmt.Errorf("%w: invalid email format", shared.ErrInvalidInput)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = generateUsername(displayName)
	}

	participant, err := a.Store.CreateParticipant(ctx, store.Participant{
		Token:       uuid.NewString(),
		Username:    username,
		DisplayName: displayName,
		Email:       email,
		Location:    strings.TrimSpace(req.Location),
	})
	if err != nil {
		return Registration{}, err
	}

	log.Info().Str("participant", participant.ID.Hex()).Str("username", username).Msg("participant registered")
	return Registration{Token: participant.Token, Participant: participant}, nil
}

// Authenticate resolves a credential token to its participant
// Preconditions: Receives context and the bearer token
// Postconditions: Returns the participant, ErrUnauthorized if the token is empty or unknown, or an error if it occurs
func (a *API) Authenticate(ctx context.Context, token string) (store.Participant, error) {
	if strings.TrimSpace(token) == "" {
		return store.Participant{}, fmt.Errorf("%w: no token provided", shared.ErrUnauthorized)
	}
	participant, err := a.Store.GetParticipantByToken(ctx, token)
	if errors.Is(err, shared.ErrNotFound) {
		return store.Participant{}, fmt.Errorf("%w: invalid token", shared.ErrUnauthorized)
	}
	return participant, err
}

// GetProfile gets the caller's participant record
func (a *API) GetProfile(ctx context.Context, callerID primitive.ObjectID) (store.Participant, error) {
	return a.Store.GetParticipant(ctx, callerID)
}

// UpdateProfile changes the caller's display name, email or location
// Preconditions: Receives context, the authenticated participant id and the changes
// Postconditions: Returns the updated participant, or an error if it occurs
func (a *API) UpdateProfile(ctx context.Context, callerID primitive.ObjectID, input ProfileInput) (store.Participant, error) {
	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		return store.Participant{}, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if err := checkDisplayName(name); err != nil {
			return store.Participant{}, err
		}
		participant.DisplayName = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" && !emailPattern.MatchString(email) {
			return store.Participant{}, fmt.Errorf("%w: invalid email format", shared.ErrInvalidInput)
		}
		participant.Email = email
	}
	if input.Location != nil {
		participant.Location = strings.TrimSpace(*input.Location)
	}

	if err := a.Store.UpdateParticipantProfile(ctx, participant); err != nil {
		return store.Participant{}, err
	}
	return participant, nil
}

// ListDependents gets the caller's dependents
func (a *API) ListDependents(ctx context.Context, callerID primitive.ObjectID) ([]store.Dependent, error) {
	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if participant.Dependents == nil {
		return []store.Dependent{}, nil
	}
	return participant.Dependents, nil
}

// AddDependent creates a dependent for the caller
// Preconditions: Receives context, the authenticated participant id and the dependent's name. The name must be at
// least 2 characters and not already used by another of the caller's dependents (ignoring case)
// Postconditions: Returns the new dependent, or an error if it occurs
func (a *API) AddDependent(ctx context.Context, callerID primitive.ObjectID, displayName string) (store.Dependent, error) {
	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		return store.Dependent{}, err
	}
	name, err := checkDependentName(participant, displayName, nil)
	if err != nil {
		return store.Dependent{}, err
	}

	dependent := store.Dependent{ID: primitive.NewObjectID(), DisplayName: name, CreatedAt: a.Clock.Now()}
	if err := a.Store.AddDependent(ctx, callerID, dependent); err != nil {
		return store.Dependent{}, err
	}
	log.Info().Str("participant", callerID.Hex()).Str("dependent", dependent.ID.Hex()).Msg("dependent added")
	return dependent, nil
}

// RenameDependent changes the name of one of the caller's dependents
// Preconditions: Receives context, the authenticated participant id, dependent id and the new name
// Postconditions: Returns the renamed dependent, ErrDependentNotFound, or an error if it occurs
func (a *API) RenameDependent(ctx context.Context, callerID, dependentID primitive.ObjectID, displayName string) (store.Dependent, error) {
	participant, err := a.Store.GetParticipant(ctx, callerID)
	if err != nil {
		return store.Dependent{}, err
	}
	dependent, ok := participant.FindDependent(dependentID)
	if !ok {
		return store.Dependent{}, fmt.Errorf("%w: %s", shared.ErrDependentNotFound, dependentID.Hex())
	}
	name, err := checkDependentName(participant, displayName, &dependentID)
	if err != nil {
		return store.Dependent{}, err
	}

	if err := a.Store.RenameDependent(ctx, callerID, dependentID, name); err != nil {
		return store.Dependent{}, err
	}
	dependent.DisplayName = name
	return dependent, nil
}

// RemoveDependent deletes one of the caller's dependents. Picks already made for the dependent are kept
// Preconditions: Receives context, the authenticated participant id and dependent id
// Postconditions: Dependent is removed, ErrDependentNotFound, or an error is returned
func (a *API) RemoveDependent(ctx context.Context, callerID, dependentID primitive.ObjectID) error {
	if err := a.Store.RemoveDependent(ctx, callerID, dependentID); err != nil {
		return err
	}
	log.Info().Str("participant", callerID.Hex()).Str("dependent", dependentID.Hex()).Msg("dependent removed")
	return nil
}

func checkDisplayName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < minDisplayNameLength || n > maxDisplayNameLength {
		return fmt.Errorf("%w: display name must be between %d and %d characters", shared.ErrInvalidInput,
			minDisplayNameLength, maxDisplayNameLength)
	}
	return nil
}

// checkDependentName trims a dependent name and checks it against the participant's other dependents. except is the
// dependent being renamed, which may keep its own name
func checkDependentName(participant store.Participant, displayName string, except *primitive.ObjectID) (string, error) {
	name := strings.TrimSpace(displayName)
	if utf8.RuneCountInString(name) < minDependentNameLength {
		return "", fmt.Errorf("%w: dependent name must be at least %d characters", shared.ErrInvalidInput, minDependentNameLength)
	}
	for _, d := range participant.Dependents {
		if except != nil && d.ID == *except {
			continue
		}
		if strings.EqualFold(d.DisplayName, name) {
			return "", fmt.Errorf("%w: you already have a dependent named %s", shared.ErrInvalidInput, d.DisplayName)
		}
	}
	return name, nil
}

// generateUsername builds a unique username from a display name, e.g. "Jane Doe" -> "jane_doe_1a2b3c4d"
func generateUsername(displayName string) string {
	base := strings.ToLower(strings.Join(strings.Fields(displayName), "_"))
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
