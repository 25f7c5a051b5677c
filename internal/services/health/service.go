package health

// Service reports process liveness.
type Service struct{}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{}
}

// Status returns the liveness payload served at /health.
func (s *Service) Status() map[string]string {
	return map[string]string{"status": "ok"}
}
