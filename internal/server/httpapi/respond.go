package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anikulin/linkstash/internal/common"
)

// category is the numeric scope an error code is reported under. The
// caller-visible status is category base plus scoped code; codes in the
// global scope carry no base.
type category int

const (
	catGlobal category = 0
	catUser   category = 100
	catLink   category = 200
	catGroup  category = 300
)

type statusData struct {
	msg     string
	success bool
	http    int
}

// statusTable maps every <category, code> pair to its caller-facing
// message and transport status.
var statusTable = map[category]map[int]statusData{
	catGlobal: {
		0: {"ok", true, http.StatusOK},
		1: {"missing JSON body", false, http.StatusBadRequest},
		2: {"incomplete request data", false, http.StatusBadRequest},
		3: {"missing access token", false, http.StatusUnauthorized},
		4: {"invalid or expired token", false, http.StatusUnauthorized},
		5: {"storage operation failed", false, http.StatusBadRequest},
	},
	catUser: {
		1: {"email already registered", false, http.StatusBadRequest},
		2: {"no matching user", false, http.StatusBadRequest},
		3: {"wrong password", false, http.StatusUnauthorized},
		4: {"identity token is not valid", false, http.StatusUnauthorized},
	},
	catLink: {
		1: {"a link needs an owning group and folder", false, http.StatusBadRequest},
		2: {"no such folder or link", false, http.StatusBadRequest},
		3: {"only one folder may be created at the root per call", false, http.StatusBadRequest},
		4: {"updating the folder/link failed", false, http.StatusInternalServerError},
	},
	catGroup: {
		1: {"not a valid gid", false, http.StatusBadRequest},
		2: {"not a valid user", false, http.StatusBadRequest},
	},
}

// response is the uniform JSON envelope of every endpoint.
type response struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Msg     string `json:"msg"`
	ResData any    `json:"res_data"`
}

func writeStatus(w http.ResponseWriter, cat category, code int, data any) {
	scope := cat
	if code == 0 {
		scope = catGlobal
	}
	sd, ok := statusTable[scope][code]
	if !ok {
		sd = statusData{"unexpected error", false, http.StatusInternalServerError}
	}
	if data == nil {
		data = map[string]any{}
	}

	body := response{
		Success: sd.success,
		Status:  int(scope) + code,
		Msg:     sd.msg,
		ResData: data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(sd.http)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, data any) {
	writeStatus(w, catGlobal, 0, data)
}

// writeLinkError renders a tree-service failure in the link scope.
func writeLinkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidPlacement):
		writeStatus(w, catLink, 1, nil)
	case errors.Is(err, common.ErrNotFound):
		writeStatus(w, catLink, 2, nil)
	case errors.Is(err, common.ErrTooManyRoots):
		writeStatus(w, catLink, 3, nil)
	case errors.Is(err, common.ErrUpdateFailed):
		writeStatus(w, catLink, 4, nil)
	case errors.Is(err, common.ErrEmptyRequest):
		writeStatus(w, catGlobal, 2, nil)
	default:
		writeStatus(w, catGlobal, 5, nil)
	}
}

// decodeJSON parses the request body; a missing or unparsable body is the
// global "missing JSON" failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeStatus(w, catGlobal, 1, nil)
		return false
	}
	return true
}
