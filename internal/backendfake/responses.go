package backendfake

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeMessage answers with {"message": msg}.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeErrors answers with {"errors": msg}.
func writeErrors(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"errors": msg})
}

// writeFieldErrors answers with {"errors": {"field": "msg"}}.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]map[string]string{"errors": fields})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

type pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

type pageEnvelope[T any] struct {
	Content       []T      `json:"content"`
	Pageable      pageable `json:"pageable"`
	TotalElements int      `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
	Last          bool     `json:"last"`
	First         bool     `json:"first"`
	Empty         bool     `json:"empty"`
}

// paginate slices items using the pageNum and pageSize query parameters.
func paginate[T any](r *http.Request, items []T) pageEnvelope[T] {
	num, _ := strconv.Atoi(r.URL.Query().Get("pageNum"))
	size, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || size <= 0 {
		size = 10
	}
	if num < 0 {
		num = 0
	}

	total := len(items)
	pages := (total + size - 1) / size
	start := min(num*size, total)
	end := min(start+size, total)

	content := make([]T, 0, end-start)
	content = append(content, items[start:end]...)
	return pageEnvelope[T]{
		Content:       content,
		Pageable:      pageable{PageNumber: num, PageSize: size},
		TotalElements: total,
		TotalPages:    pages,
		First:         num == 0,
		Last:          num >= pages-1,
		Empty:         len(content) == 0,
	}
}
