package event_form_client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/raffle/go/clients"
)

func TestGetParticipants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != ParticipantsEndpoint {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"abc","name":"Ada","email":"ada@x.com","created_at":"2024-05-01T10:00:00Z"},
			{"id":42,"name":"Bob","email":"bob@x.com","created_at":"2024-05-02T11:30:00Z"}
		]`)
	}))
	defer srv.Close()

	client := NewEventFormClient(srv.URL, Endpoints{})
	got, err := client.GetParticipants(context.Background())
	if err != nil {
		t.Fatalf("GetParticipants: %v", err)
	}

	want := []Participant{
		{ID: "abc", Name: "Ada", Email: "ada@x.com", CreatedAt: "2024-05-01T10:00:00Z"},
		{ID: "42", Name: "Bob", Email: "bob@x.com", CreatedAt: "2024-05-02T11:30:00Z"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("participants mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAllParticipantsUsesExportEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	client := NewEventFormClient(srv.URL, Endpoints{Export: "/api/all"})
	if _, err := client.GetAllParticipants(context.Background()); err != nil {
		t.Fatalf("GetAllParticipants: %v", err)
	}
	if gotPath != "/api/all" {
		t.Errorf("expected export path /api/all, got %s", gotPath)
	}
}

func TestMarkDrawnSendsStatusUpdate(t *testing.T) {
	var got StatusUpdate
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	client := NewEventFormClient(srv.URL, Endpoints{})
	if err := client.MarkDrawn(context.Background(), "abc"); err != nil {
		t.Fatalf("MarkDrawn: %v", err)
	}

	if method != http.MethodPut {
		t.Errorf("expected PUT, got %s", method)
	}
	if diff := cmp.Diff(StatusUpdate{ID: "abc", Status: 0}, got); diff != "" {
		t.Errorf("status update mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    clients.ErrorKind
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: clients.ErrorKindStatus,
		},
		{
			name: "non json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>not json</html>")
			},
			want: clients.ErrorKindDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewEventFormClient(srv.URL, Endpoints{})
			_, err := client.GetParticipants(context.Background())
			if err == nil {
				t.Fatal("expected an error")
			}
			if kind := clients.KindOf(err); kind != tt.want {
				t.Errorf("expected kind %q, got %q (%v)", tt.want, kind, err)
			}
		})
	}

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client := NewEventFormClient(url, Endpoints{})
		_, err := client.GetParticipants(context.Background())
		if kind := clients.KindOf(err); kind != clients.ErrorKindTransport {
			t.Errorf("expected transport error, got %q (%v)", kind, err)
		}
	})
}
