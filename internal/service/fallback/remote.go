package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/analysis/intent"
	"github.com/gcet-assistant/backend/internal/model/content"
	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/render"
	"github.com/gcet-assistant/backend/internal/service/remote"
)

// Querier is the part of the remote client the strategy needs.
type Querier interface {
	Query(ctx context.Context, q remote.Query) (remote.Response, error)
}

// Resolver turns an intent into content.
type Resolver interface {
	Resolve(tag intent.Tag, qualifier string, uc profile.UserContext) (content.StructuredContent, error)
}

// RemoteStrategy asks the college query service first.
type RemoteStrategy struct {
	client   Querier
	resolver Resolver
	logger   *zap.Logger
}

func NewRemoteStrategy(client Querier, resolver Resolver, logger *zap.Logger) *RemoteStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteStrategy{client: client, resolver: resolver, logger: logger.Named("remote")}
}

func (s *RemoteStrategy) Name() string { return "remote" }

var typeIntents = map[string]intent.Tag{
	remote.TypeTimetable: intent.Timetable,
	remote.TypeExam:      intent.Exam,
	remote.TypePDFs:      intent.Notes,
}

func (s *RemoteStrategy) Try(ctx context.Context, req Request) (Reply, bool) {
	resp, err := s.client.Query(ctx, remote.Query{Text: req.Text, Context: req.Context})
	if err != nil {
		s.logger.Warn("query service failed", zap.Error(err))
		return Reply{}, false
	}
	if !resp.OK {
		return Reply{}, false
	}

	if tag, known := typeIntents[resp.Type]; known {
		if c, ok := decodeContent(resp.Type, resp.Data, req); ok {
			return formatted(c, s.Name(), s.logger)
		}
		// The service recognised the request but sent nothing usable.
		c, err := s.resolver.Resolve(tag, req.Text, req.Context)
		if err != nil {
			s.logger.Warn("local resolve failed", zap.Error(err))
			return Reply{}, false
		}
		return formatted(c, s.Name(), s.logger)
	}

	if msg := strings.TrimSpace(resp.Message); msg != "" {
		return Reply{Text: msg, Source: s.Name()}, true
	}
	return Reply{}, false
}

func decodeContent(kind string, data json.RawMessage, req Request) (content.StructuredContent, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, false
	}

	switch kind {
	case remote.TypeTimetable:
		var tt content.Timetable
		if err := json.Unmarshal(data, &tt); err != nil || len(tt.Days) == 0 {
			return nil, false
		}
		fillProfile(&tt.Branch, &tt.Semester, &tt.Batch, req)
		return tt, true
	case remote.TypeExam:
		var set content.ExamSet
		if data[0] == '[' {
			if err := json.Unmarshal(data, &set.Exams); err != nil {
				return nil, false
			}
		} else if err := json.Unmarshal(data, &set); err != nil {
			return nil, false
		}
		fillProfile(&set.Branch, &set.Semester, &set.Batch, req)
		return set, true
	case remote.TypePDFs:
		var list content.MaterialList
		if data[0] == '[' {
			if err := json.Unmarshal(data, &list.Items); err != nil {
				return nil, false
			}
		} else if err := json.Unmarshal(data, &list); err != nil {
			return nil, false
		}
		return list, true
	}
	return nil, false
}

func fillProfile(branch *string, semester *int, batch *string, req Request) {
	if *branch == "" {
		*branch = req.Context.Branch
	}
	if *semester == 0 {
		*semester = req.Context.Semester
	}
	if *batch == "" {
		*batch = req.Context.Batch
	}
}

func formatted(c content.StructuredContent, source string, logger *zap.Logger) (Reply, bool) {
	markup, err := render.Markup(c)
	if err != nil {
		logger.Warn("format content failed", zap.Error(err))
		return Reply{}, false
	}
	return Reply{Text: markup, Markup: true, Source: source}, true
}
