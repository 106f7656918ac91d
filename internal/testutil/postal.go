package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Veraticus/pinpoint/internal/model"
)

// PostalServer fakes the India Post PIN code API.
type PostalServer struct {
	*httptest.Server

	offices map[string][]model.PostOffice
	calls   map[string]int
	mu      sync.Mutex
}

// NewPostalServer starts a fake postal service that knows the given PINs.
// Unknown PINs get the service's "Error" payload.
func NewPostalServer(t *testing.T, offices map[string][]model.PostOffice) *PostalServer {
	t.Helper()

	ps := &PostalServer{offices: offices, calls: make(map[string]int)}
	ps.Server = httptest.NewServer(http.HandlerFunc(ps.handle))
	t.Cleanup(ps.Close)
	return ps
}

// Calls returns how many times pin was requested.
func (ps *PostalServer) Calls(pin string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.calls[pin]
}

func (ps *PostalServer) handle(w http.ResponseWriter, r *http.Request) {
	pin := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	ps.mu.Lock()
	ps.calls[pin]++
	offices, ok := ps.offices[pin]
	ps.mu.Unlock()

	type office struct {
		Name     string `json:"Name"`
		Taluk    string `json:"Taluk"`
		Block    string `json:"Block"`
		District string `json:"District"`
		State    string `json:"State"`
	}
	type payload struct {
		PostOffice []office `json:"PostOffice"`
		Message    string   `json:"Message"`
		Status     string   `json:"Status"`
	}

	resp := payload{Message: "No records found", Status: "Error"}
	if ok {
		resp = payload{Message: "Number of pincode(s) found:1", Status: "Success"}
		for _, o := range offices {
			resp.PostOffice = append(resp.PostOffice, office{
				Name: o.Name, Taluk: o.SubDistrict, Block: "NA", District: o.District, State: o.State,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode([]payload{resp})
}
