package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/netmcp/internal/device"
)

// handleListDevices returns a filtered, paginated view of the inventory.
//
// Query parameters (all optional; an empty value is treated as absent):
//   - status: online, offline or maintenance
//   - vendor, location: case-insensitive substring
//   - tag: exact tag membership
//   - q: case-insensitive substring of hostname or model
//   - limit: 1..1000, default 100
//   - offset: >= 0, default 0
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	criteria, page, err := parseDeviceQuery(r.URL.Query())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	res, err := s.store.Query(criteria, page)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dev, ok := s.store.Lookup(id)
	if !ok {
		s.writeFailure(w, r, fmt.Errorf("%w: %q", device.ErrDeviceNotFound, id))
		return
	}

	writeJSON(w, http.StatusOK, dev)
}

// handleDeviceStats returns device counts by status.
func (s *Server) handleDeviceStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// parseDeviceQuery converts REST query values into filter criteria and a page.
func parseDeviceQuery(q url.Values) (device.Criteria, device.Page, error) {
	var (
		c    device.Criteria
		page = device.DefaultPage()
		err  error
	)

	if v := q.Get("status"); v != "" {
		if c.Status, err = device.ParseStatus(v); err != nil {
			return c, page, err
		}
	}
	c.Vendor = q.Get("vendor")
	c.Location = q.Get("location")
	c.Tag = q.Get("tag")
	c.Query = q.Get("q")

	if v := q.Get("limit"); v != "" {
		if page.Limit, err = strconv.Atoi(v); err != nil {
			return c, page, fmt.Errorf("%w: limit must be an integer, got %q", device.ErrInvalidPage, v)
		}
	}
	if v := q.Get("offset"); v != "" {
		if page.Offset, err = strconv.Atoi(v); err != nil {
			return c, page, fmt.Errorf("%w: offset must be an integer, got %q", device.ErrInvalidPage, v)
		}
	}

	return c, page, page.Validate()
}
