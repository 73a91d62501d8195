package http

import (
	"net/http"
	"strconv"

	"gastos/internal/core"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg core.Registration
	if err := decodeJSON(r, &reg); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.accounts.Register(r.Context(), reg)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin returns the stored row on success. There is no session or
// token: the client keeps its own login state and tells the admin dashboard
// apart purely by the username value.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"user":  user,
		"admin": user.IsAdmin(),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, r, &core.ValidationError{Field: "id", Reason: "must be an integer"})
		return
	}

	if err := s.accounts.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
