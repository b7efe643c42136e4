package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/equipamentos-api/pkg/config"
)

// NewPool abre el pool contra la base donde viven categorias, equipamentos, movimentacoes,
// pedidos y profiles. La sesión corre en UTC; la zona de negocio se aplica en las consultas.
func NewPool(ctx context.Context, cfg config.DBConfig, appName string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if cfg.PreferIPv4 {
		// Docker suele no tener ruta IPv6 y el host gestionado puede publicar AAAA primero.
		poolConfig.ConnConfig.DialFunc = dialIPv4First
	}

	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = appName
	params["timezone"] = "UTC"

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// dialIPv4First intenta las direcciones A del host y cae al dial normal si no hay ninguna.
func dialIPv4First(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	if ip := net.ParseIP(host); ip != nil {
		return dialer.DialContext(ctx, network, addr)
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		return dialer.DialContext(ctx, network, addr)
	}
	var lastErr error
	for _, ip := range ips {
		conn, err := dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip.String(), port))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
