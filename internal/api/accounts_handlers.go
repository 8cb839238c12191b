package api

import (
	"net/http"

	"hotelbooking/internal/models"
)

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in models.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	res, err := s.svc.Auth.Signup(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	var in models.ChangePasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.svc.Auth.ChangePassword(r.Context(), actor, in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListRooms(w http.ResponseWriter, r *http.Request) {
	filter, err := roomFilter(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	page, err := s.svc.Rooms.ListRooms(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *HTTPServer) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	room, err := s.svc.Rooms.GetRoom(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *HTTPServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	var in models.RoomInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	room, err := s.svc.Rooms.CreateRoom(r.Context(), actor, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *HTTPServer) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var in models.RoomInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	room, err := s.svc.Rooms.UpdateRoom(r.Context(), actor, id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *HTTPServer) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.svc.Rooms.DeleteRoom(r.Context(), actor, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	page, err := pagination(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	filter := models.CustomerFilter{Query: r.URL.Query().Get("q"), Pagination: page}

	res, err := s.svc.Customers.ListCustomers(r.Context(), actor, filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	c, err := s.svc.Customers.GetCustomer(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *HTTPServer) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var patch models.CustomerPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	c, err := s.svc.Customers.UpdateCustomer(r.Context(), actor, id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *HTTPServer) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.svc.Customers.DeleteCustomer(r.Context(), actor, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	employees, err := s.svc.Employees.ListEmployees(r.Context(), actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": employees})
}

func (s *HTTPServer) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	var in models.EmployeeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	e, err := s.svc.Employees.AddEmployee(r.Context(), actor, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *HTTPServer) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	e, err := s.svc.Employees.GetEmployee(r.Context(), actor, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *HTTPServer) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var patch models.EmployeePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	e, err := s.svc.Employees.UpdateEmployee(r.Context(), actor, id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *HTTPServer) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.svc.Employees.DeleteEmployee(r.Context(), actor, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
