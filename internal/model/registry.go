package model

// DatabaseResource holds the identifiers of a provisioned database
// project, including the credentials dependent steps need for wiring.
type DatabaseResource struct {
	ProjectID     string `json:"project_id"`
	ConnectionURL string `json:"connection_url"`
	Host          string `json:"host"`
	DBName        string `json:"db_name"`
	Role          string `json:"role"`
	Password      string `json:"-"`
}

// RepositoryResource holds the identifiers of a provisioned source
// repository.
type RepositoryResource struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	CloneURL string `json:"clone_url"`
}

// HostingResource holds the identifiers of a provisioned hosting project.
type HostingResource struct {
	ProjectID    string `json:"project_id"`
	URL          string `json:"url"`
	DeploymentID string `json:"deployment_id,omitempty"`
}

// VoiceAgentResource holds the identifier of a provisioned voice agent.
type VoiceAgentResource struct {
	AgentID string `json:"agent_id"`
}

// ResourceRegistry collects the handles of every resource created so far
// in the current run. A handle is populated only once its creation step
// reached success, which makes the registry the exact rollback target set.
type ResourceRegistry struct {
	Database   *DatabaseResource   `json:"database,omitempty"`
	Repository *RepositoryResource `json:"repository,omitempty"`
	Hosting    *HostingResource    `json:"hosting,omitempty"`
	VoiceAgent *VoiceAgentResource `json:"voice_agent,omitempty"`
}

// Empty reports whether no resource handle has been populated.
func (r ResourceRegistry) Empty() bool {
	return r.Database == nil && r.Repository == nil && r.Hosting == nil && r.VoiceAgent == nil
}
