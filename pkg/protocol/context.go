package protocol

import "context"

type classificationKey struct{}

// WithClassification stores the negotiation result of a request.
func WithClassification(ctx context.Context, c Classification) context.Context {
	return context.WithValue(ctx, classificationKey{}, c)
}

// FromContext returns the negotiation result stored by WithClassification.
// ok is false when no negotiating middleware ran for the request.
func FromContext(ctx context.Context) (c Classification, ok bool) {
	c, ok = ctx.Value(classificationKey{}).(Classification)
	return c, ok
}
