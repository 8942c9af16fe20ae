package cmd

import (
	"context"
	"syscall"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/manifest"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
)

// getManifest fetches the manifest designated by a command argument. It
// reports a failure and returns false when it cannot.
func getManifest(ctx context.Context, stores *cliStores, arg string) (cafs.Key, manifest.Manifest, bool) {
	id, err := cafs.KeyFromString(arg)
	if err != nil {
		wrapFatalln("invalid manifest identifier "+arg, err)
		return cafs.Key{}, manifest.Manifest{}, false
	}

	m, err := stores.manifests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, status.ErrNotExists) {
			wrapFatalWithCodef(int(syscall.ENOENT), "didn't find manifest %v", id)
			return cafs.Key{}, manifest.Manifest{}, false
		}
		wrapFatalln("get manifest", err)
		return cafs.Key{}, manifest.Manifest{}, false
	}
	return id, m, true
}
