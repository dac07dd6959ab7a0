package cli

import (
	"fmt"

	"graph-mapper/examples/social"
	"graph-mapper/internal/metadata"
)

// modelTypes is the bundled example model the inspect and resolve commands
// work on. Metadata needs compiled types, so only linked-in models can be
// inspected at run time.
var modelTypes = metadata.TypesOf(social.Person{}, social.Movie{}, social.Review{})

func (a *app) buildModel() (*metadata.Registry, error) {
	opts, err := a.cfg.MetadataOptions(a.logger)
	if err != nil {
		return nil, err
	}

	return metadata.Build(modelTypes, opts...)
}

func (a *app) lookupClass(reg *metadata.Registry, name string) (*metadata.ClassMetadata, error) {
	cm, ok := reg.ClassMetadataForName(name)
	if !ok {
		return nil, fmt.Errorf("type %q is not part of the model", name)
	}

	return cm, nil
}
