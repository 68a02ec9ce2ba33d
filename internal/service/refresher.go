package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// CatalogRefresher 定时从记录存储刷新目录
type CatalogRefresher struct {
	catalog  *Catalog
	interval time.Duration

	stop chan struct{}
	once sync.Once
}

// NewCatalogRefresher 创建刷新服务，interval <= 0 时不启用定时刷新
func NewCatalogRefresher(catalog *Catalog, interval time.Duration) *CatalogRefresher {
	return &CatalogRefresher{
		catalog:  catalog,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start 启动时先加载一次，之后按间隔刷新
func (s *CatalogRefresher) Start() {
	go s.runRefresh()

	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runRefresh()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop 停止定时刷新
func (s *CatalogRefresher) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *CatalogRefresher) runRefresh() {
	log.Println("[CatalogRefresher] 开始刷新电影目录...")
	movies := s.catalog.Reload(context.Background())
	log.Printf("[CatalogRefresher] 目录中共有 %d 部电影", len(movies))
}
