package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"talent-match-go/internal/api/handler"
	"talent-match-go/internal/api/router"
	"talent-match-go/internal/catalog"
	"talent-match-go/internal/config"
	"talent-match-go/internal/matcher"
	"talent-match-go/internal/types"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedEmbedder 按文本返回预置向量，未预置的文本返回单位向量。
type scriptedEmbedder struct {
	vectors map[string][]float64
}

func (s *scriptedEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if v, ok := s.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float64{1, 0}
		}
	}
	return out, nil
}

func newTestEngine(t *testing.T) *server.Hertz {
	return newEngineWithRecords(t, testRecordSet())
}

func newEngineWithRecords(t *testing.T, records []catalog.RawRecord) *server.Hertz {
	t.Helper()

	embedder := &scriptedEmbedder{vectors: map[string][]float64{
		// 画像文本与Designer条目向量的余弦为0.8
		"profile narrative": {1, 0},
	}}

	jobCatalog, err := catalog.New(records)
	require.NoError(t, err)

	jobMatcher := matcher.NewCandidateJobMatcher(embedder)
	finder := catalog.NewFinder(jobCatalog, embedder)

	cfg := &config.Config{}
	matchHandler := handler.NewMatchHandler(cfg, nil, jobMatcher, jobCatalog, finder)

	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(h, matchHandler)
	return h
}

// testRecordSet 测试目录：两个职位，向量互不平行。
func testRecordSet() []catalog.RawRecord {
	return []catalog.RawRecord{
		{
			Record: types.JobRecord{
				"title":          "Backend Engineer",
				"skills":         "Go, MySQL",
				"min_experience": "3+ years",
				"education":      "Bachelor's degree",
				"category":       "Development",
			},
			Embedding: []float64{1, 0},
		},
		{
			Record: types.JobRecord{
				"title":          "Product Designer",
				"skills":         "Figma",
				"min_experience": "2 years",
				"category":       "Design",
			},
			Embedding: []float64{4, 3},
		},
	}
}

func performJSON(t *testing.T, h *server.Hertz, method, path string, payload any) *ut.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return ut.PerformRequest(h.Engine, method, path,
		&ut.Body{Body: bytes.NewBuffer(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
}

func TestHandleMatchScore(t *testing.T) {
	h := newTestEngine(t)

	req := handler.MatchScoreRequest{
		Profile: handler.CandidateProfilePayload{
			TechnicalSkills:  "Go, MySQL",
			TotalYearsInTech: 6,
			HighestDegree:    "Master of Science",
			Industries:       "Fintech",
		},
		AppliedPosition: "Backend Engineer",
	}

	resp := performJSON(t, h, "POST", "/api/v1/match/score", req)
	require.Equal(t, http.StatusOK, resp.Code)

	var result handler.MatchScoreResponse
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &result))
	assert.Equal(t, "backend engineer", result.Position, "响应中的职位名应为小写归一化后的值")
	assert.Greater(t, result.MatchScore, 0.0)
	assert.LessOrEqual(t, result.MatchScore, 100.0)
	// 两位小数约束
	assert.Equal(t, matcher.Round2(result.MatchScore), result.MatchScore, "分数应保留两位小数")
}

func TestHandleMatchScoreMissingPosition(t *testing.T) {
	h := newTestEngine(t)

	resp := performJSON(t, h, "POST", "/api/v1/match/score", handler.MatchScoreRequest{
		Profile: handler.CandidateProfilePayload{TechnicalSkills: "Go"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, "缺少applied_position应返回400")
}

func TestHandleMatchScoreUnknownPosition(t *testing.T) {
	h := newTestEngine(t)

	resp := performJSON(t, h, "POST", "/api/v1/match/score", handler.MatchScoreRequest{
		Profile:         handler.CandidateProfilePayload{TechnicalSkills: "Go"},
		AppliedPosition: "Quantum Plumber",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code, "目录中不存在的职位应返回404")
}

func TestHandleBestFit(t *testing.T) {
	h := newTestEngine(t)

	resp := performJSON(t, h, "POST", "/api/v1/match/best-fit", handler.BestFitRequest{
		Profile:         "profile narrative",
		AppliedPosition: "Backend Engineer",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var result types.BestFit
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &result))
	// Backend Engineer被排除后，Designer胜出
	assert.Equal(t, "Product Designer", result.JobTitle)
	assert.InDelta(t, 80.0, result.MatchPercentage, 1e-9)
}

func TestHandleBestFitSentinel(t *testing.T) {
	// 目录中唯一的职位正是已申请职位：过滤后无候选，对外返回哨兵结果
	h := newEngineWithRecords(t, []catalog.RawRecord{
		{
			Record:    types.JobRecord{"title": "Backend Engineer", "skills": "Go"},
			Embedding: []float64{1, 0},
		},
	})

	resp := performJSON(t, h, "POST", "/api/v1/match/best-fit", handler.BestFitRequest{
		Profile:         "profile narrative",
		AppliedPosition: "Backend Engineer",
	})
	require.Equal(t, http.StatusOK, resp.Code, "哨兵结果以200返回而非错误")

	var result types.BestFit
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &result))
	assert.Equal(t, types.NoSuitableJobTitle, result.JobTitle)
	assert.Zero(t, result.MatchPercentage)
}

func TestHandleBestFitEmptyProfile(t *testing.T) {
	h := newTestEngine(t)

	resp := performJSON(t, h, "POST", "/api/v1/match/best-fit", handler.BestFitRequest{
		AppliedPosition: "Backend Engineer",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, "空画像应返回400")
}

func TestHandleHealth(t *testing.T) {
	h := newTestEngine(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(resp.Result().Body(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 2, health["catalog_size"])
}
