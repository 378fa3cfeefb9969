/* participants.go
 * Contains the methods for interacting with the participants collection, including the embedded dependents and pool
 * memberships
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"confidence-pool/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateParticipant inserts a new participant
// Preconditions: Receives context and the participant, whose token and username are already set
// Postconditions: Returns the stored participant with its id set, or an error if it occurs
func (s *Store) CreateParticipant(ctx context.Context, participant Participant) (Participant, error) {
	participant.ID = primitive.NewObjectID()
	participant.CreatedAt = s.Clock.Now()
	if participant.Dependents == nil {
		participant.Dependents = []Dependent{}
	}
	if participant.ParticipatingPools == nil {
		participant.ParticipatingPools = []PoolMembership{}
	}

	if _, err := s.Collections.Participants.InsertOne(ctx, participant); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Participant{}, fmt.Errorf("%w: participant already exists", shared.ErrInvalidInput)
		}
		return Participant{}, storageError("failed to insert new participant", err)
	}
	return participant, nil
}

// GetParticipant does DB lookup for a participant by id
// Preconditions: Receives context and participant id
// Postconditions: Returns the participant, an ErrNotFound error if it does not exist, or an error if it occurs
func (s *Store) GetParticipant(ctx context.Context, participantID primitive.ObjectID) (Participant, error) {
	var participant Participant
	if err := s.Collections.Participants.FindOne(ctx, bson.M{"_id": participantID}).Decode(&participant); err != nil {
		return Participant{}, notFound("participant", err)
	}
	return participant, nil
}

// GetParticipantByToken does DB lookup for the participant that owns a credential token
// Preconditions: Receives context and token
// Postconditions: Returns the participant, an ErrNotFound error if no participant owns the token, or an error if it occurs
func (s *Store) GetParticipantByToken(ctx context.Context, token string) (Participant, error) {
	var participant Participant
	if err := s.Collections.Participants.FindOne(ctx, bson.M{"token": token}).Decode(&participant); err != nil {
		return Participant{}, notFound("participant", err)
	}
	return participant, nil
}

// UpdateParticipantProfile updates the profile fields (display name, email and location) of a participant
// Preconditions: Receives context and the participant with updated profile fields
// Postconditions: Updates the participant in the db, or returns an error if it does not exist or the update fails
func (s *Store) UpdateParticipantProfile(ctx context.Context, participant Participant) error {
	update := bson.M{
		"$set": bson.M{
			"displayname": participant.DisplayName,
			"email":       participant.Email,
			"location":    participant.Location,
		},
	}
	res, err := s.Collections.Participants.UpdateOne(ctx, bson.M{"_id": participant.ID}, update)
	if err != nil {
		return storageError("failed to update participant", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("participant %w", shared.ErrNotFound)
	}
	return nil
}

// ListPoolParticipants gets every participant that has joined a pool, in order of registration
// Preconditions: Receives context and pool id
// Postconditions: Returns slice of participants (possibly empty), or an error if it occurs
func (s *Store) ListPoolParticipants(ctx context.Context, poolID primitive.ObjectID) ([]Participant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.Collections.Participants.Find(ctx, bson.M{"participatingpools.poolid": poolID}, opts)
	if err != nil {
		return nil, storageError("error fetching participants from db", err)
	}

	participants := []Participant{}
	if err = cursor.All(ctx, &participants); err != nil {
		return nil, storageError("error unpacking cursor into slice of participants", err)
	}
	return participants, nil
}

// AddMembership records that a participant joined a pool. If the participant is already a member nothing changes
// Preconditions: Receives context, participant id and membership record
// Postconditions: Membership is recorded, or an error is returned
func (s *Store) AddMembership(ctx context.Context, participantID primitive.ObjectID, membership PoolMembership) error {
	filter := bson.M{
		"_id":                       participantID,
		"participatingpools.poolid": bson.M{"$ne": membership.PoolID},
	}
	update := bson.M{"$push": bson.M{"participatingpools": membership}}
	if _, err := s.Collections.Participants.UpdateOne(ctx, filter, update); err != nil {
		return storageError("failed to add pool membership", err)
	}
	return nil
}

// RemoveMembership removes a participant's membership of a pool
// Preconditions: Receives context, participant id and pool id
// Postconditions: Membership is removed, or an error is returned
func (s *Store) RemoveMembership(ctx context.Context, participantID, poolID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"participatingpools": bson.M{"poolid": poolID}}}
	res, err := s.Collections.Participants.UpdateOne(ctx, bson.M{"_id": participantID}, update)
	if err != nil {
		return storageError("failed to remove pool membership", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("participant %w", shared.ErrNotFound)
	}
	return nil
}

// AddDependent appends a dependent to a participant
// Preconditions: Receives context, participant id and the dependent (with id set)
// Postconditions: Dependent is stored, or an error is returned
func (s *Store) AddDependent(ctx context.Context, participantID primitive.ObjectID, dependent Dependent) error {
	update := bson.M{"$push": bson.M{"dependents": dependent}}
	res, err := s.Collections.Participants.UpdateOne(ctx, bson.M{"_id": participantID}, update)
	if err != nil {
		return storageError("failed to add dependent", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("participant %w", shared.ErrNotFound)
	}
	return nil
}

// RenameDependent changes the display name of one of a participant's dependents
// Preconditions: Receives context, participant id, dependent id and the new display name
// Postconditions: Dependent is renamed, ErrDependentNotFound if the participant has no such dependent, or an error
func (s *Store) RenameDependent(ctx context.Context, participantID, dependentID primitive.ObjectID, displayName string) error {
	filter := bson.M{"_id": participantID, "dependents._id": dependentID}
	update := bson.M{"$set": bson.M{"dependents.$.displayname": displayName}}
	res, err := s.Collections.Participants.UpdateOne(ctx, filter, update)
	if err != nil {
		return storageError("failed to rename dependent", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrDependentNotFound
	}
	return nil
}

// RemoveDependent deletes one of a participant's dependents
// Preconditions: Receives context, participant id and dependent id
// Postconditions: Dependent is removed, ErrDependentNotFound if the participant has no such dependent, or an error
func (s *Store) RemoveDependent(ctx context.Context, participantID, dependentID primitive.ObjectID) error {
	filter := bson.M{"_id": participantID, "dependents._id": dependentID}
	update := bson.M{"$pull": bson.M{"dependents": bson.M{"_id": dependentID}}}
	res, err := s.Collections.Participants.UpdateOne(ctx, filter, update)
	if err != nil {
		return storageError("failed to remove dependent", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrDependentNotFound
	}
	return nil
}
