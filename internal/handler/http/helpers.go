package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/middleware"
	"github.com/khoa-hris/chamcong-backend-go/internal/handler/http/response"
)

// decodeJSON decodes the request body into v and writes a 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func principal(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	p, ok := middleware.PrincipalFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return user.Principal{}, false
	}
	return p, true
}

// departmentFor resolves the department a request targets. Department users
// default to their own department and cannot ask for another one.
func departmentFor(p user.Principal, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	scope := p.Scope()
	if scope == "" {
		return requested, nil
	}
	if requested != "" && requested != scope {
		return "", user.ErrDepartmentScopeViolation
	}
	return scope, nil
}
