package types

type PurgeCacheRequest struct {
	// Names lists the caches to flush. Empty flushes every cache.
	Names []string `json:"names" validate:"dive,required,max=64"`
}

type ArchiveReferencesRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02" required:"true"`
}
