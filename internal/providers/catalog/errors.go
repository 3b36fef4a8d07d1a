package catalog

import "errors"

var ErrNoAsset = errors.New("release has no matching asset")
