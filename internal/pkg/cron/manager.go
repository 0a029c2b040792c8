package cron

import (
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	metricsSpec   string
	articleMetric cron.Job
}

// NewCronManager metricsSpec 为带秒的 cron 表达式
func NewCronManager(articleMetric cron.Job, metricsSpec string) *Manager {
	return &Manager{
		engine:        cron.New(cron.WithSeconds()),
		metricsSpec:   metricsSpec,
		articleMetric: articleMetric,
	}
}

// RegisterJobs 注册定时任务，上一轮未结束时跳过本轮
func (s *Manager) RegisterJobs() error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.articleMetric)
	if _, err := s.engine.AddJob(s.metricsSpec, job); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// InitCron 注册并启动全部定时任务，表达式非法时直接返回错误
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		log.Error("Cron 任务注册失败", "spec", mgr.metricsSpec, "err", err)
		return err
	}
	mgr.Start()
	return nil
}
