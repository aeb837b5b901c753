package handler

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "negociosverdes/pkg/errors"
	httputil "negociosverdes/pkg/http"
	"negociosverdes/pkg/model"
	"negociosverdes/pkg/sanitizer"
)

// parseRecordQuery reads the records filters. List parameters are repeated
// (?sector=A&sector=B). Regions may also be comma separated; the other values can
// contain commas themselves.
func parseRecordQuery(r *http.Request) (model.RecordQuery, error) {
	values := r.URL.Query()

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		return model.RecordQuery{}, err
	}

	q := model.RecordQuery{
		Regions:     listParam(values["region"], true),
		Departments: listParam(values["department"], false),
		Sectors:     listParam(values["sector"], false),
		Categories:  listParam(values["category"], false),
		Search:      strings.TrimSpace(values.Get("q")),
		Limit:       limit,
		Offset:      offset,
	}

	if s := values.Get("aligned"); s != "" {
		aligned, err := parseAligned(s)
		if err != nil {
			return model.RecordQuery{}, err
		}
		q.Aligned = &aligned
	}

	return q, nil
}

func listParam(raw []string, splitCommas bool) []string {
	var items []string
	for _, v := range raw {
		if splitCommas {
			items = append(items, sanitizer.SplitList(v, ",")...)
			continue
		}
		items = append(items, v)
	}
	out := sanitizer.NormalizeStringSlice(items, strings.TrimSpace)
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseAligned(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí":
		return true, nil
	case "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperrors.InvalidInput("invalid aligned parameter: " + s)
	}
	return b, nil
}
