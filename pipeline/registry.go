package pipeline

import (
	"github.com/rs/zerolog"

	"sla-pipeline/config"
	"sla-pipeline/errors"
	"sla-pipeline/models"
)

// Registry holds the dashboard instances. Instances fail independently:
// one dashboard's broken exports never block the others.
type Registry struct {
	pipelines map[string]*Pipeline
	names     []string
}

// NewRegistry builds the three standard dashboards from config.
func NewRegistry(cfg *config.Config, logger zerolog.Logger) *Registry {
	r := &Registry{pipelines: make(map[string]*Pipeline)}
	for _, p := range []*Pipeline{
		New(models.Chat, cfg.ChatCurrentDir, cfg.ChatBeforeDir, logger),
		New(models.Voice, cfg.VoiceCurrentDir, cfg.VoiceBeforeDir, logger),
		New(models.VoiceSales, cfg.SalesCurrentDir, cfg.SalesBeforeDir, logger),
	} {
		r.Add(p)
	}
	return r
}

// Add registers a dashboard instance under its schema name.
func (r *Registry) Add(p *Pipeline) {
	if r.pipelines == nil {
		r.pipelines = make(map[string]*Pipeline)
	}
	if _, ok := r.pipelines[p.Name]; !ok {
		r.names = append(r.names, p.Name)
	}
	r.pipelines[p.Name] = p
}

// Get returns the named dashboard instance.
func (r *Registry) Get(name string) (*Pipeline, error) {
	p, ok := r.pipelines[name]
	if !ok {
		return nil, errors.ErrUnknownDashboard
	}
	return p, nil
}

// Names lists the registered dashboards in registration order.
func (r *Registry) Names() []string {
	return append([]string{}, r.names...)
}
