package importer

import "errors"

var ErrParse = errors.New("malformed booking export")
