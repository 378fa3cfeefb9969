/* pools.go
 * Contains the HTTP handlers for pools and their administration
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"

	"confidence-pool/api/api"
)

func (s *Server) getActivePool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.api.GetActivePool(r.Context(), caller(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) listAdminPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.api.ListAdminPools(r.Context(), caller(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

func (s *Server) createPool(w http.ResponseWriter, r *http.Request) {
	var input api.PoolInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	pool, err := s.api.CreatePool(r.Context(), caller(r).ID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

func (s *Server) getPool(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pool, err := s.api.GetPool(r.Context(), caller(r).ID, poolID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) updatePool(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var input api.PoolInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	pool, err := s.api.UpdatePool(r.Context(), caller(r).ID, poolID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) joinPool(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pool, err := s.api.JoinPool(r.Context(), caller(r).ID, poolID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) leavePool(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.api.LeavePool(r.Context(), caller(r).ID, poolID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "left pool"})
}

func (s *Server) activatePool(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pool, err := s.api.ActivatePool(r.Context(), caller(r).ID, poolID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) poolParticipants(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	participants, err := s.api.PoolParticipants(r.Context(), caller(r).ID, poolID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, participants)
}
