package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, contract.HealthResponse{Status: "ok"})
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.lists.GetListSummaries(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleDefaultList(w http.ResponseWriter, r *http.Request) {
	id, err := s.lists.GetDefaultListID(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if id == "" {
		s.writeError(w, http.StatusNotFound, "no lists", "")
		return
	}
	s.writeJSON(w, http.StatusOK, contract.DefaultListResponse{ID: id})
}

func (s *Server) handleListRead(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listId")
	query, err := contract.ParseReadQuery(r.URL.Query())
	if err != nil {
		var verr *contract.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, "invalid query", verr.Details())
			return
		}
		s.internalError(w, r, err)
		return
	}

	var (
		summaries []domain.ListSummary
		active    *domain.List
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		summaries, err = s.lists.GetListSummaries(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.lists.GetListByID(ctx, listID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "list not found", listID)
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, contract.ListReadResponse{
		Lists:          summaries,
		ActiveList:     active,
		ParentOptions:  tree.BuildParentOptions(active.Items),
		PendingCount:   tree.CountByStatus(active.Items, false),
		CompletedCount: tree.CountByStatus(active.Items, true),
		Query:          query,
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("listId")
	req, err := decodeMutation(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	redirect, err := s.apply(r.Context(), listID, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, "invalid request", verr.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, contract.MutationResponse{RedirectTo: redirect})
}

// decodeMutation accepts a JSON MutationRequest or a form with an action
// field plus payload fields.
func decodeMutation(r *http.Request) (contract.MutationRequest, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return contract.MutationRequest{}, fmt.Errorf("parsing form: %w", err)
		}
		req := contract.MutationRequest{
			Action:  contract.Action(r.PostForm.Get("action")),
			Payload: map[string]string{},
		}
		for key, vs := range r.PostForm {
			if key == "action" || len(vs) == 0 {
				continue
			}
			req.Payload[key] = vs[0]
		}
		return req, nil
	default:
		var req contract.MutationRequest
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return req, fmt.Errorf("reading body: %w", err)
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return req, errors.New("empty body")
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return req, fmt.Errorf("decoding body: %w", err)
		}
		if req.Payload == nil {
			req.Payload = map[string]string{}
		}
		return req, nil
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal error", "")
}
