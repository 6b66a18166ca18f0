package router

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
)

// parseRequest binds url query values (GET) or the json body (POST) onto a
// fresh Request value, matching fields by their json tag.
func parseRequest[Request any](r *http.Request) (*Request, error) {
	var req Request

	switch r.Method {
	case http.MethodGet, http.MethodDelete:
		v := reflect.ValueOf(&req).Elem()
		for i := 0; i < v.NumField(); i++ {
			name := v.Type().Field(i).Tag.Get("json")
			queryVal := r.URL.Query().Get(name)
			if queryVal == "" {
				continue
			}

			switch v.Field(i).Kind() {
			case reflect.String:
				v.Field(i).SetString(queryVal)

			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				val, err := strconv.ParseInt(queryVal, 10, 64)
				if err != nil {
					return nil, errorx.New(errorx.BadRequest, "Invalid number at field %s", name)
				}
				v.Field(i).SetInt(val)

			case reflect.Bool:
				val, err := strconv.ParseBool(queryVal)
				if err != nil {
					return nil, errorx.New(errorx.BadRequest, "Invalid boolean at field %s", name)
				}
				v.Field(i).SetBool(val)
			}
		}

	case http.MethodPost, http.MethodPut, http.MethodPatch:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Cannot read the request body")
		}

		if len(b) > 0 {
			if err := json.Unmarshal(b, &req); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid json body")
			}
		}
	}

	return &req, nil
}
