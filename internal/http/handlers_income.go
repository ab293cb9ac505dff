package http

import "net/http"

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	in, err := parseIncomeRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	created, err := s.incomes.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeResponse(created))
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	in, err := s.incomes.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIncomeResponse(in))
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonthQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	incomes, err := s.incomes.GetAllForMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]incomeResponse, 0, len(incomes))
	for _, in := range incomes {
		out = append(out, toIncomeResponse(in))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	in, err := parseIncomeRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := s.incomes.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIncomeResponse(updated))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := s.incomes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
