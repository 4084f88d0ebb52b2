package engine

// ColliderTrait marks the embedding entity as a Collider.
type ColliderTrait struct{}

func (ColliderTrait) isCollider() {}

// Collider is an entity that Collided entities are tested against. Only the
// Collided side is notified of a collision. Embed ColliderTrait to implement it.
type Collider interface {
	Bounded
	isCollider()
}

// Collided is an entity that gets notified when it overlaps a Collider.
// Detection is Axis-Aligned Bounding Box only, so rotation is ignored.
type Collided interface {
	Bounded
	OnCollision(collider Collider)
}

// CheckForCollisions tests collided against colliders in slice order and calls
// OnCollision for the first overlapping collider only. The collided entity is
// skipped by identity, so distinct entities with identical bounds still collide.
// It reports whether a collision was dispatched.
func CheckForCollisions(collided Collided, colliders []Collider) bool {
	if len(colliders) == 0 {
		return false
	}

	bounds := collided.TransformedBounds()
	for _, collider := range colliders {
		if sameEntity(collided, collider) {
			continue
		}
		if bounds.Intersects(collider.TransformedBounds()) {
			collided.OnCollision(collider)
			return true
		}
	}
	return false
}
