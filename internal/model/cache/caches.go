package cache

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/cache"
)

type Flusher func(ctx context.Context) error

var (
	ReferenceByID *cache.Set[model.ReferencePose]

	ReferenceGroups   *cache.Singular[[]*model.ReferenceGroup]
	ReferencesByGroup *cache.Set[[]*model.ReferencePose]

	once sync.Once

	FlusherMap map[string]Flusher
)

func Initialize(client *redis.Client) {
	once.Do(func() {
		initializeCaches(client)
	})
}

// Delete flushes the cache registered under name. Flushing an unknown name is a no-op.
func Delete(ctx context.Context, name string) error {
	if f, ok := FlusherMap[name]; ok {
		return f(ctx)
	}
	return nil
}

// DeleteAll flushes every registered cache.
func DeleteAll(ctx context.Context) error {
	for _, f := range FlusherMap {
		if err := f(ctx); err != nil {
			return err
		}
	}
	return nil
}

func initializeCaches(client *redis.Client) {
	FlusherMap = make(map[string]Flusher)

	ReferenceByID = cache.NewSet[model.ReferencePose](client, "reference#referenceId")
	FlusherMap["reference#referenceId"] = ReferenceByID.Clear

	ReferencesByGroup = cache.NewSet[[]*model.ReferencePose](client, "references#group")
	FlusherMap["references#group"] = ReferencesByGroup.Clear

	ReferenceGroups = cache.NewSingular[[]*model.ReferenceGroup]("referenceGroups")
	FlusherMap["referenceGroups"] = func(context.Context) error {
		return ReferenceGroups.Delete()
	}
}
