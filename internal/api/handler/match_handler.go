package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talent-match-go/internal/catalog"
	"talent-match-go/internal/config"
	"talent-match-go/internal/logger"
	"talent-match-go/internal/matcher"
	"talent-match-go/internal/storage"
	"talent-match-go/internal/storage/models"
	"talent-match-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gofrs/uuid/v5"
)

// MatchHandler 负责处理候选人-职位匹配相关的请求。
type MatchHandler struct {
	cfg     *config.Config
	storage *storage.Storage
	matcher *matcher.CandidateJobMatcher
	catalog *catalog.JobCatalog
	finder  *catalog.Finder
}

// NewMatchHandler 创建一个新的 MatchHandler 实例。
func NewMatchHandler(cfg *config.Config, store *storage.Storage, jobMatcher *matcher.CandidateJobMatcher, jobCatalog *catalog.JobCatalog, finder *catalog.Finder) *MatchHandler {
	return &MatchHandler{
		cfg:     cfg,
		storage: store,
		matcher: jobMatcher,
		catalog: jobCatalog,
		finder:  finder,
	}
}

// CandidateProfilePayload 外部系统提交的候选人画像。
// 字段命名沿用上游档案抽取服务的约定。
type CandidateProfilePayload struct {
	CurrentTitle         string `json:"currentTitle"`
	CurrentCompany       string `json:"currentCompany"`
	TotalYearsInTech     int    `json:"totalYearsInTech"`
	HighestDegree        string `json:"highestDegree"`
	ProgramOfStudy       string `json:"programOfStudy"`
	University           string `json:"university"`
	GraduationYear       string `json:"graduationYear"`
	TechnicalSkills      string `json:"technicalSkills"`
	ProgrammingLanguages string `json:"programmingLanguages"`
	ToolsAndTechnologies string `json:"toolsAndTechnologies"`
	SoftSkills           string `json:"softSkills"`
	Industries           string `json:"industries"`
	Certifications       string `json:"certifications"`
	KeyProjects          string `json:"keyProjects"`
	RecentAchievements   string `json:"recentAchievements"`
}

// ToCandidateRecord 把画像载荷转换成匹配引擎约定的字段名。
func (p *CandidateProfilePayload) ToCandidateRecord() types.CandidateRecord {
	return types.CandidateRecord{
		matcher.FieldTechnicalSkills:      p.TechnicalSkills,
		matcher.FieldSoftSkills:           p.SoftSkills,
		matcher.FieldToolsTechnologies:    p.ToolsAndTechnologies,
		matcher.FieldProgrammingLanguages: p.ProgrammingLanguages,
		matcher.FieldTotalYearsInTech:     fmt.Sprintf("%d", p.TotalYearsInTech),
		matcher.FieldHighestDegree:        p.HighestDegree,
		matcher.FieldProgram:              p.ProgramOfStudy,
		matcher.FieldSchool:               p.University,
		matcher.FieldIndustries:           p.Industries,
		"Job_1_Title":                     p.CurrentTitle,
		"Job_1_Company":                   p.CurrentCompany,
	}
}

// MatchScoreRequest 单对打分请求。
type MatchScoreRequest struct {
	Profile         CandidateProfilePayload `json:"profile"`
	AppliedPosition string                  `json:"applied_position"`
	CandidateRef    string                  `json:"candidate_ref"`
}

// MatchScoreResponse 单对打分响应。
type MatchScoreResponse struct {
	Position   string  `json:"position"`
	MatchScore float64 `json:"match_score"`
}

// HandleMatchScore 处理候选人与其申请职位的打分请求。
// POST /api/v1/match/score
func (h *MatchHandler) HandleMatchScore(ctx context.Context, c *app.RequestContext) {
	var req MatchScoreRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "请求体解析失败: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.AppliedPosition) == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "applied_position 不能为空"})
		return
	}

	if h.catalog == nil || h.catalog.Len() == 0 {
		c.JSON(consts.StatusServiceUnavailable, map[string]string{"error": "职位目录不可用"})
		return
	}

	applied := strings.ToLower(req.AppliedPosition)
	entry, ok := h.catalog.ResolveByTitle(applied)
	if !ok {
		c.JSON(consts.StatusNotFound, map[string]string{"error": fmt.Sprintf("未找到职位: %s", applied)})
		return
	}

	// 模型冻结期内相同候选人-职位对的打分可直接复用缓存
	if cached, ok := h.cachedMatchScore(ctx, req.CandidateRef, applied); ok {
		c.JSON(consts.StatusOK, MatchScoreResponse{
			Position:   applied,
			MatchScore: matcher.Round2(cached.Total),
		})
		return
	}

	score, err := h.matcher.PredictMatchScore(ctx, req.Profile.ToCandidateRecord(), entry.Record)
	if err != nil {
		h.writeScoreError(c, err)
		return
	}

	h.persistMatchRecord(ctx, req.CandidateRef, applied, score)

	c.JSON(consts.StatusOK, MatchScoreResponse{
		Position:   applied,
		MatchScore: matcher.Round2(score.Total),
	})
}

// BestFitRequest 目录检索请求，画像为预先格式化的叙述文本。
type BestFitRequest struct {
	Profile         string `json:"profile"`
	AppliedPosition string `json:"applied_position"`
}

// HandleBestFit 处理最优职位检索请求。
// POST /api/v1/match/best-fit
func (h *MatchHandler) HandleBestFit(ctx context.Context, c *app.RequestContext) {
	var req BestFitRequest
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "请求体解析失败: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Profile) == "" {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": "profile 不能为空"})
		return
	}

	result, err := h.finder.BestMatch(ctx, req.Profile, req.AppliedPosition)
	if err != nil {
		var noMatch *catalog.NoMatchFoundError
		if errors.As(err, &noMatch) {
			// 全部被已申请职位过滤掉：对外返回哨兵结果而非错误
			c.JSON(consts.StatusOK, types.SentinelBestFit())
			return
		}
		var emptyCatalog *catalog.EmptyCatalogError
		if errors.As(err, &emptyCatalog) {
			c.JSON(consts.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		var embeddingErr *matcher.EmbeddingServiceError
		if errors.As(err, &embeddingErr) {
			c.JSON(consts.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		c.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	c.JSON(consts.StatusOK, result)
}

// writeScoreError 把打分错误映射为HTTP状态码。
func (h *MatchHandler) writeScoreError(c *app.RequestContext, err error) {
	var shapeErr *matcher.InputShapeError
	if errors.As(err, &shapeErr) {
		c.JSON(consts.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var embeddingErr *matcher.EmbeddingServiceError
	if errors.As(err, &embeddingErr) {
		c.JSON(consts.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	c.JSON(consts.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// cachedMatchScore 读取候选人-职位对的分数缓存；Redis未配置、引用为空或未命中返回false。
func (h *MatchHandler) cachedMatchScore(ctx context.Context, candidateRef, position string) (*types.MatchScore, bool) {
	if h.storage == nil || h.storage.Redis == nil || candidateRef == "" {
		return nil, false
	}
	score, err := h.storage.Redis.GetMatchScore(ctx, candidateRef, position)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn().Err(err).Str("position", position).Msg("读取分数缓存失败")
		}
		return nil, false
	}
	return score, true
}

// persistMatchRecord 落库并缓存打分结果；存储未配置或失败只告警，不影响响应。
func (h *MatchHandler) persistMatchRecord(ctx context.Context, candidateRef, position string, score *types.MatchScore) {
	if h.storage == nil {
		return
	}

	if h.storage.MySQL != nil {
		if id, err := uuid.NewV7(); err != nil {
			logger.Warn().Err(err).Msg("生成匹配记录ID失败")
		} else {
			record := &models.MatchRecord{
				ID:              id.String(),
				CandidateRef:    candidateRef,
				Position:        position,
				SkillScore:      score.Skill,
				ExperienceScore: score.Experience,
				EducationScore:  score.Education,
				IndustryScore:   score.Industry,
				TotalScore:      score.Total,
			}
			if err := h.storage.MySQL.SaveMatchRecord(ctx, record); err != nil {
				logger.Warn().Err(err).Str("position", position).Msg("保存匹配记录失败")
			}
		}
	}

	if h.storage.Redis != nil && candidateRef != "" {
		if err := h.storage.Redis.SetMatchScore(ctx, candidateRef, position, score); err != nil {
			logger.Warn().Err(err).Str("position", position).Msg("写入分数缓存失败")
		}
	}
}

// HandleHealth 健康检查。
// GET /api/v1/health
func (h *MatchHandler) HandleHealth(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]interface{}{
		"status":       "ok",
		"catalog_size": h.catalogSize(),
	})
}

func (h *MatchHandler) catalogSize() int {
	if h.catalog == nil {
		return 0
	}
	return h.catalog.Len()
}

// StartMatchRequestConsumer 启动异步打分消费者，阻塞直到 ctx 取消。
// 消息处理复用HTTP路径的打分与落库逻辑。
func (h *MatchHandler) StartMatchRequestConsumer(ctx context.Context) error {
	if h.storage == nil || h.storage.RabbitMQ == nil {
		return fmt.Errorf("RabbitMQ未配置，无法启动打分消费者")
	}

	return h.storage.RabbitMQ.ConsumeMatchRequests(ctx, func(ctx context.Context, msg *storage.MatchRequestMessage) error {
		if h.catalog == nil || h.catalog.Len() == 0 {
			return fmt.Errorf("职位目录不可用")
		}

		applied := strings.ToLower(msg.AppliedPosition)
		entry, ok := h.catalog.ResolveByTitle(applied)
		if !ok {
			// 职位不存在属于坏消息而非瞬时故障，记日志后吞掉，避免无限重投
			logger.Warn().Str("message_id", msg.MessageID).Str("position", applied).Msg("打分请求指向未知职位，忽略")
			return nil
		}

		score, err := h.matcher.PredictMatchScore(ctx, types.CandidateRecord(msg.Candidate), entry.Record)
		if err != nil {
			return err
		}
		h.persistMatchRecord(ctx, msg.CandidateRef, applied, score)

		logger.Info().
			Str("message_id", msg.MessageID).
			Str("position", applied).
			Float64("total_score", matcher.Round2(score.Total)).
			Msg("异步打分完成")
		return nil
	})
}
