package main

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"snicETL/models"
)

// consumoCache guarda em memória os registros do CSV tratado.
type consumoCache struct {
	mu        sync.RWMutex
	registros []models.ConsumoCimento
	loaded    bool
}

func newConsumoCache() *consumoCache {
	return &consumoCache{}
}

// load relê o CSV tratado e substitui o conteúdo do cache.
func (c *consumoCache) load(path string) error {
	df, err := readProcessedCSV(path)
	if err != nil {
		return err
	}

	registros := make([]models.ConsumoCimento, 0, df.Nrow())
	for _, row := range df.Records()[1:] {
		if len(row) < len(models.ColunasConsumoCimento) {
			continue
		}
		registros = append(registros, models.ConsumoCimento{
			Ano:      row[0],
			Mes:      row[1],
			Estado:   row[2],
			Regiao:   row[3],
			ConsumoT: row[4],
		})
	}

	c.set(registros)
	return nil
}

func (c *consumoCache) set(registros []models.ConsumoCimento) {
	c.mu.Lock()
	c.registros = registros
	c.loaded = true
	c.mu.Unlock()
}

type consumoFiltro struct {
	Ano    string
	Mes    string
	Estado string
	Regiao string
}

func matchFiltro(valor, filtro string) bool {
	return filtro == "" || strings.EqualFold(strings.TrimSpace(valor), strings.TrimSpace(filtro))
}

func (c *consumoCache) search(f consumoFiltro) []models.ConsumoCimento {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := []models.ConsumoCimento{}
	for _, r := range c.registros {
		if !matchFiltro(r.Ano, f.Ano) || !matchFiltro(r.Mes, f.Mes) ||
			!matchFiltro(r.Estado, f.Estado) || !matchFiltro(r.Regiao, f.Regiao) {
			continue
		}
		results = append(results, r)
	}
	return results
}

func (c *consumoCache) status() (bool, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded, len(c.registros)
}

// serverMetrics usa um registry próprio por roteador.
type serverMetrics struct {
	registry  *prometheus.Registry
	consultas *prometheus.CounterVec
}

func newServerMetrics(cache *consumoCache) *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		consultas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snic_consultas_total",
			Help: "Consultas ao consumo de cimento, por resultado.",
		}, []string{"resultado"}),
	}
	registros := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "snic_registros_cache",
		Help: "Registros carregados no cache de consumo.",
	}, func() float64 {
		_, total := cache.status()
		return float64(total)
	})
	m.registry.MustRegister(m.consultas, registros)
	return m
}

func searchConsumoHandler(cache *consumoCache, metrics *serverMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		results := cache.search(consumoFiltro{
			Ano:    q.Get("ano"),
			Mes:    q.Get("mes"),
			Estado: q.Get("estado"),
			Regiao: q.Get("regiao"),
		})

		resultado := "encontrado"
		if len(results) == 0 {
			resultado = "vazio"
		}
		metrics.consultas.WithLabelValues(resultado).Inc()

		render.JSON(w, r, results)
	}
}

func healthHandler(cache *consumoCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loaded, total := cache.status()
		render.JSON(w, r, map[string]interface{}{
			"status":    "ok",
			"loaded":    loaded,
			"registros": total,
		})
	}
}

// corsMiddleware adiciona headers CORS para aceitar requisições de qualquer origem
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(cache *consumoCache) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	metrics := newServerMetrics(cache)
	r.Get("/consumo", searchConsumoHandler(cache, metrics))
	r.Get("/health", healthHandler(cache))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))
	return r
}

// startServer carrega o cache a partir do CSV tratado e serve as consultas.
func startServer(cfg *Config) error {
	if err := cfg.validate(camposServidor...); err != nil {
		return err
	}

	cache := newConsumoCache()
	if err := cache.load(cfg.OutputPath()); err != nil {
		return fmt.Errorf("erro ao carregar cache de consumo: %w", err)
	}
	_, total := cache.status()
	logInfo("Cache carregado com %d registros", total)

	logSuccess("Servidor iniciado em %s", cfg.ServerAddr)
	return http.ListenAndServe(cfg.ServerAddr, newRouter(cache))
}
