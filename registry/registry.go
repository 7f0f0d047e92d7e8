// Package registry resolves the logical "current model" to a concrete
// (model, provider, credential) triple from the system catalogs, user-defined
// custom entries, and per-provider enablement configuration.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"membrain/config"
	"membrain/model"
	"membrain/storage"
)

// Registry tracks provider configuration, custom catalog entries and the
// current model selection. Every mutating operation persists the affected
// collection snapshot and re-validates the current selection.
type Registry struct {
	mu sync.Mutex

	store storage.Store
	creds *config.CredentialStore // optional fallback for API keys

	customModels    []model.Model
	customProviders []model.ModelProvider
	providerConfigs map[string]model.ProviderConfig
	promptTemplates []model.PromptTemplate
	temperature     float64

	current *model.ModelAndProvider
}

// New creates a registry backed by the given store. creds may be nil.
func New(store storage.Store, creds *config.CredentialStore) *Registry {
	return &Registry{
		store:           store,
		creds:           creds,
		providerConfigs: make(map[string]model.ProviderConfig),
		temperature:     config.DefaultTemperature,
	}
}

// Load hydrates the registry from persisted state and re-resolves the
// current model against the freshly loaded enabled set. Safe to call more
// than once.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.Get(storage.ScopeSync, storage.KeyCustomModels, &r.customModels); err != nil {
		return err
	}
	if _, err := r.store.Get(storage.ScopeSync, storage.KeyCustomProviders, &r.customProviders); err != nil {
		return err
	}
	if _, err := r.store.Get(storage.ScopeSync, storage.KeyProviderConfigs, &r.providerConfigs); err != nil {
		return err
	}
	if r.providerConfigs == nil {
		r.providerConfigs = make(map[string]model.ProviderConfig)
	}
	if _, err := r.store.Get(storage.ScopeSync, storage.KeyPromptTemplates, &r.promptTemplates); err != nil {
		return err
	}
	if _, err := r.store.Get(storage.ScopeSync, storage.KeyTemperature, &r.temperature); err != nil {
		return err
	}

	var currentID string
	if _, err := r.store.Get(storage.ScopeSync, storage.KeyCurrentModelID, &currentID); err != nil {
		return err
	}
	r.current = nil
	for _, mp := range r.enabledModelsLocked() {
		if mp.Model.ID == currentID {
			selected := mp
			r.current = &selected
			break
		}
	}
	r.refreshCurrentLocked()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Registry] loaded: %d enabled models, current=%v",
			len(r.enabledModelsLocked()), currentID)
	}
	return nil
}

// AllModels returns the system catalog followed by custom models.
func (r *Registry) AllModels() []model.Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(config.SystemModels(), r.customModels...)
}

// AllProviders returns the system catalog followed by custom providers.
func (r *Registry) AllProviders() []model.ModelProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(config.SystemProviders(), r.customProviders...)
}

// EnabledModels returns the (model, provider) pairs the user may currently
// select: for each enabled provider, its models whose names appear in the
// provider's EnabledModels list. Order is provider insertion order (system
// first, then custom) crossed with model order within each provider.
func (r *Registry) EnabledModels() []model.ModelAndProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabledModelsLocked()
}

func (r *Registry) enabledModelsLocked() []model.ModelAndProvider {
	providers := append(config.SystemProviders(), r.customProviders...)
	models := append(config.SystemModels(), r.customModels...)

	var result []model.ModelAndProvider
	for _, p := range providers {
		cfg, ok := r.providerConfigs[p.ID]
		if !ok || !cfg.Enabled {
			continue
		}
		for _, m := range models {
			if m.ProviderID == p.ID && cfg.ModelEnabled(m.Name) {
				result = append(result, model.ModelAndProvider{Model: m, Provider: p})
			}
		}
	}
	return result
}

// CurrentModel returns the validated current selection, or nil when no model
// is enabled.
func (r *Registry) CurrentModel() *model.ModelAndProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	selected := *r.current
	return &selected
}

// SetCurrentModel selects a model by id from the enabled set. Selecting an
// id outside the enabled set is rejected.
func (r *Registry) SetCurrentModel(modelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mp := range r.enabledModelsLocked() {
		if mp.Model.ID == modelID {
			selected := mp
			r.current = &selected
			r.persistCurrentLocked()
			return nil
		}
	}
	return fmt.Errorf("model %s is not enabled", modelID)
}

// refreshCurrentLocked re-validates the current selection against the enabled
// set, auto-selecting the first enabled model when the selection became
// invalid and clearing it when the set is empty. A selection stays valid only
// if both model id and provider id still match an enabled pair.
func (r *Registry) refreshCurrentLocked() {
	enabled := r.enabledModelsLocked()

	valid := false
	if r.current != nil {
		for _, mp := range enabled {
			if mp.Model.ID == r.current.Model.ID && mp.Provider.ID == r.current.Provider.ID {
				valid = true
				break
			}
		}
	}

	switch {
	case valid:
		return
	case len(enabled) > 0:
		selected := enabled[0]
		r.current = &selected
	default:
		r.current = nil
	}
	r.persistCurrentLocked()
}

func (r *Registry) persistCurrentLocked() {
	id := ""
	if r.current != nil {
		id = r.current.Model.ID
	}
	if err := r.store.Set(storage.ScopeSync, storage.KeyCurrentModelID, id); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Registry] failed to persist current model: %v", err)
	}
}

// ProviderConfig returns the configuration for a provider, zero-valued if
// none has been stored.
func (r *Registry) ProviderConfig(providerID string) model.ProviderConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.providerConfigs[providerID]
}

// SetProviderConfig stores a provider configuration and re-validates the
// current model (disabling a provider cascade-invalidates selections that
// depended on it).
func (r *Registry) SetProviderConfig(cfg model.ProviderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providerConfigs[cfg.ProviderID] = cfg
	if err := r.store.Set(storage.ScopeSync, storage.KeyProviderConfigs, r.providerConfigs); err != nil {
		return err
	}
	r.refreshCurrentLocked()
	return nil
}

// APIKeyFor resolves the credential for a provider: the inline ProviderConfig
// key when present, otherwise the credential store.
func (r *Registry) APIKeyFor(providerID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.providerConfigs[providerID]; ok && cfg.APIKey != "" {
		return cfg.APIKey
	}
	if r.creds != nil {
		return r.creds.Get(providerID)
	}
	return ""
}

// AddCustomModel appends a user-defined model, generating its id.
func (r *Registry) AddCustomModel(m model.Model) (model.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.customModels = append(r.customModels, m)
	if err := r.store.Set(storage.ScopeSync, storage.KeyCustomModels, r.customModels); err != nil {
		return model.Model{}, err
	}
	r.refreshCurrentLocked()
	return m, nil
}

// RemoveCustomModel removes a custom model by id; removing an unknown id is a
// no-op.
func (r *Registry) RemoveCustomModel(modelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.customModels[:0]
	for _, m := range r.customModels {
		if m.ID != modelID {
			kept = append(kept, m)
		}
	}
	r.customModels = kept
	if err := r.store.Set(storage.ScopeSync, storage.KeyCustomModels, r.customModels); err != nil {
		return err
	}
	r.refreshCurrentLocked()
	return nil
}

// AddCustomProvider appends a user-defined provider, generating its id.
func (r *Registry) AddCustomProvider(p model.ModelProvider) (model.ModelProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.customProviders = append(r.customProviders, p)
	if err := r.store.Set(storage.ScopeSync, storage.KeyCustomProviders, r.customProviders); err != nil {
		return model.ModelProvider{}, err
	}
	r.refreshCurrentLocked()
	return p, nil
}

// RemoveCustomProvider removes a custom provider together with all custom
// models belonging to it and its enablement entry.
func (r *Registry) RemoveCustomProvider(providerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keptProviders := r.customProviders[:0]
	for _, p := range r.customProviders {
		if p.ID != providerID {
			keptProviders = append(keptProviders, p)
		}
	}
	r.customProviders = keptProviders

	keptModels := r.customModels[:0]
	for _, m := range r.customModels {
		if m.ProviderID != providerID {
			keptModels = append(keptModels, m)
		}
	}
	r.customModels = keptModels

	delete(r.providerConfigs, providerID)

	if err := r.store.Set(storage.ScopeSync, storage.KeyCustomProviders, r.customProviders); err != nil {
		return err
	}
	if err := r.store.Set(storage.ScopeSync, storage.KeyCustomModels, r.customModels); err != nil {
		return err
	}
	if err := r.store.Set(storage.ScopeSync, storage.KeyProviderConfigs, r.providerConfigs); err != nil {
		return err
	}
	r.refreshCurrentLocked()
	return nil
}

// Temperature returns the configured sampling temperature.
func (r *Registry) Temperature() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.temperature
}

// SetTemperature stores the sampling temperature.
func (r *Registry) SetTemperature(t float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.temperature = t
	return r.store.Set(storage.ScopeSync, storage.KeyTemperature, t)
}

// PromptTemplates returns the stored prompt templates.
func (r *Registry) PromptTemplates() []model.PromptTemplate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PromptTemplate(nil), r.promptTemplates...)
}

// SetPromptTemplates replaces the stored prompt templates.
func (r *Registry) SetPromptTemplates(templates []model.PromptTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promptTemplates = templates
	return r.store.Set(storage.ScopeSync, storage.KeyPromptTemplates, templates)
}
