package shared

// BaseAggregateRoot adds a version counter to BaseEntity for aggregate
// roots whose saves go through optimistic locking.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot returns a fresh aggregate root at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// GetVersion returns the version used for optimistic locking.
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version after a state change.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}
