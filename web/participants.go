/* participants.go
 * Contains the HTTP handlers for registration, profiles and dependents
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"

	"confidence-pool/api/api"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	registration, err := s.api.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, registration)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	participant, err := s.api.GetProfile(r.Context(), caller(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var input api.ProfileInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	participant, err := s.api.UpdateProfile(r.Context(), caller(r).ID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

func (s *Server) listDependents(w http.ResponseWriter, r *http.Request) {
	dependents, err := s.api.ListDependents(r.Context(), caller(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dependents)
}

func (s *Server) addDependent(w http.ResponseWriter, r *http.Request) {
	var req DependentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	dependent, err := s.api.AddDependent(r.Context(), caller(r).ID, req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dependent)
}

func (s *Server) renameDependent(w http.ResponseWriter, r *http.Request) {
	dependentID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req DependentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	dependent, err := s.api.RenameDependent(r.Context(), caller(r).ID, dependentID, req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dependent)
}

func (s *Server) removeDependent(w http.ResponseWriter, r *http.Request) {
	dependentID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.api.RemoveDependent(r.Context(), caller(r).ID, dependentID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "dependent removed"})
}
