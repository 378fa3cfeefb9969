/* picks.go
 * Contains the HTTP handlers for submitting and reading picks, and for the standings
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"

	"confidence-pool/api/api"
)

func (s *Server) submitPicks(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitPicksRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.api.SubmitPicks(r.Context(), caller(r).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) adminSubmitPicks(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req api.AdminPicksRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.api.AdminSubmitPicks(r.Context(), caller(r).ID, poolID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listPicks(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dependentID, err := dependentQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	picks, err := s.api.ListPicks(r.Context(), caller(r).ID, poolID, dependentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

func (s *Server) pickStatus(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dependentID, err := dependentQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := s.api.GetPickStatus(r.Context(), caller(r).ID, poolID, dependentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) picksSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.api.GetPicksSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) standings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.api.GetStandings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}
