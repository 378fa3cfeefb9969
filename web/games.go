/* games.go
 * Contains the HTTP handlers for games and game results
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"

	"confidence-pool/api/api"
)

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	games, err := s.api.ListGames(r.Context(), poolID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	poolID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var input api.GameInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	game, err := s.api.CreateGame(r.Context(), caller(r).ID, poolID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (s *Server) updateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var input api.GameInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	game, err := s.api.UpdateGame(r.Context(), caller(r).ID, gameID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) recordGameResult(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req api.GameResultRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.api.RecordGameResult(r.Context(), caller(r).ID, gameID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) upcomingGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.api.UpcomingGames(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}
