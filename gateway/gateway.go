package gateway

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rushteam/scorekit/core"
	"github.com/rushteam/scorekit/job"
)

// Service 是网关依赖的作业服务接口（由 job.Manager 实现）。
type Service interface {
	// CreateJob 创建并异步启动一个作业
	CreateJob(ctx context.Context, name string) (*job.Job, error)

	// GetJob 按 ID 查询作业
	GetJob(ctx context.Context, id string) (*job.Job, error)

	// Results 读取作业当前已收集的结果
	Results(ctx context.Context, id string) ([]core.Result, error)
}

// 确保 job.Manager 实现了 Service 接口
var _ Service = (*job.Manager)(nil)

// Gateway 是打分作业的 REST 网关：
//
//	POST /api/v1/jobs          触发一次打分作业
//	GET  /api/v1/jobs/:id      查询作业状态
//	GET  /api/v1/jobs/:id/results  读取结果表
//	GET  /healthz              健康检查
type Gateway struct {
	svc    Service
	logger *zap.SugaredLogger
	engine *gin.Engine
}

// New 创建网关并注册路由。
func New(svc Service, logger *zap.SugaredLogger) *Gateway {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	g := &Gateway{
		svc:    svc,
		logger: logger,
		engine: gin.New(),
	}
	g.engine.Use(gin.Recovery())
	g.routes()
	return g
}

// Engine 暴露底层 gin.Engine（测试/自定义中间件用）。
func (g *Gateway) Engine() *gin.Engine { return g.engine }

// Serve 在 addr 上启动 HTTP 服务，阻塞直到出错。
func (g *Gateway) Serve(addr string) error {
	g.logger.Infow("gateway listening", "addr", addr)
	return g.engine.Run(addr)
}

func (g *Gateway) routes() {
	g.engine.GET("/healthz", g.health)

	api := g.engine.Group("/api/v1")
	api.POST("/jobs", g.createJob)
	api.GET("/jobs/:id", g.getJob)
	api.GET("/jobs/:id/results", g.getResults)
}

func (g *Gateway) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createJobRequest struct {
	Name string `json:"name" binding:"required"`
}

func (g *Gateway) createJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	j, err := g.svc.CreateJob(c.Request.Context(), req.Name)
	if err != nil {
		g.logger.Errorw("create job failed", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, j.Snapshot())
}

func (g *Gateway) getJob(c *gin.Context) {
	j, err := g.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, j.Snapshot())
}

func (g *Gateway) getResults(c *gin.Context) {
	id := c.Param("id")

	j, err := g.svc.GetJob(c.Request.Context(), id)
	if err != nil {
		g.renderError(c, err)
		return
	}

	results, err := g.svc.Results(c.Request.Context(), id)
	if err != nil {
		g.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":  id,
		"state":   j.State(),
		"count":   len(results),
		"results": results,
	})
}

func (g *Gateway) renderError(c *gin.Context, err error) {
	if core.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	g.logger.Errorw("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
