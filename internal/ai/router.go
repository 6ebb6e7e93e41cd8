package ai

import (
	"github.com/scoutdb/codescout/internal/model"
)

// Router picks the embedder for a content class. One model per class, each
// with its own fixed dimensionality; searches must embed the query with the
// same model that indexed the targeted content.
type Router struct {
	byType   map[model.ContentType]IEmbedder
	fallback IEmbedder
}

func NewRouter(fallback IEmbedder) *Router {
	return &Router{
		byType:   make(map[model.ContentType]IEmbedder),
		fallback: fallback,
	}
}

func (r *Router) Bind(ct model.ContentType, e IEmbedder) *Router {
	if e != nil {
		r.byType[ct] = e
	}
	return r
}

// ForContentType returns the bound embedder, or the fallback when the class
// has no dedicated model. Empty content type always yields the fallback.
func (r *Router) ForContentType(ct model.ContentType) IEmbedder {
	if e, ok := r.byType[ct]; ok {
		return e
	}
	return r.fallback
}
