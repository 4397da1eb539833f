// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"github.com/relabs-tech/collectify/core"
)

// Configuration holds a complete backend configuration
type Configuration struct {
	Collections []collectionConfiguration `json:"collections"`
	Uploads     *uploadConfiguration      `json:"uploads"`
}

// collectionConfiguration describes one tracked media collection
type collectionConfiguration struct {
	Resource    core.Resource `json:"resource"`
	Description string        `json:"description"`
}

// uploadConfiguration describes the inline image upload resource
type uploadConfiguration struct {
	Resource     string `json:"resource"`
	MaxSizeBytes int64  `json:"max_size_bytes"`
	Description  string `json:"description"`
}
