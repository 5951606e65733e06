package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"OpenMCP-EVM/internal/chains"
	"OpenMCP-EVM/internal/config"
	xerrors "OpenMCP-EVM/internal/errors"
	"OpenMCP-EVM/internal/mcp"
	"OpenMCP-EVM/internal/observability/metrics"
	"OpenMCP-EVM/internal/resources"
	"OpenMCP-EVM/pkg/logger"
)

// main 是 evmmcpd 守护进程的入口。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("evmmcpd 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Resolve(filepath.Join("configs", "evmmcp.json"))
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	defer logger.Sync()
	lg := logger.Named("evmmcpd")

	if err := cfg.LoadEnv(); err != nil {
		return err
	}

	catalog, err := buildCatalog(cfg)
	if err != nil {
		lg.Log(ctx, xerrors.SeverityOf(err).Level(), "chain catalog unavailable", xerrors.LogAttrs(err)...)
		return err
	}
	registry, err := buildRegistry(catalog)
	if err != nil {
		lg.Log(ctx, xerrors.SeverityOf(err).Level(), "chain registry unavailable", xerrors.LogAttrs(err)...)
		return err
	}
	lg.Info("chain registry ready", "catalog", catalog.IDs(), "registered", registry.List())

	collector := metrics.New()
	host, err := resources.Register(
		mcp.NewServer(mcp.WithMetrics(collector), mcp.WithAuditLogger(logger.Audit())),
		resources.NewDocuments(catalog),
	)
	if err != nil {
		return err
	}
	for _, res := range host.List() {
		lg.Info("resource registered", "name", res.Name, "uri", res.URI)
	}

	if cfg.Server.MetricsAddress != "" {
		go func() {
			if err := collector.StartServer(ctx, cfg.Server.MetricsAddress); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("metrics server stopped", "error", err)
			}
		}()
	}

	server := mcp.NewHTTPServer(cfg.Server.Address, host, registry, collector)
	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	lg.Info("evmmcpd stopped")
	return nil
}

// buildCatalog 合并内置链、YAML 定义与环境变量中的 RPC 地址。
// 链定义无法加载时守护进程不能启动，错误按 critical 记录。
func buildCatalog(cfg *config.Config) (chains.Catalog, error) {
	defs, err := chains.LoadDefinitions(cfg.Chains.Definitions)
	if err != nil {
		return chains.Catalog{}, initFailure(err, "load chain definitions",
			xerrors.WithMetadata("path", cfg.Chains.Definitions))
	}
	return chains.DefaultCatalog().Merge(defs).WithRPCOverrides(os.LookupEnv), nil
}

// buildRegistry 从目录中选出配置了 RPC 的链。
func buildRegistry(catalog chains.Catalog) (*chains.Registry, error) {
	registry, err := catalog.Registry()
	if err != nil {
		return nil, initFailure(err, "build chain registry")
	}
	return registry, nil
}

func initFailure(err error, msg string, opts ...xerrors.Option) error {
	opts = append(opts, xerrors.WithSeverity(xerrors.SeverityCritical))
	return xerrors.Wrap(xerrors.CodeInitializationFailure, err, msg, opts...)
}
