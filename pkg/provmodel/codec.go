// Copyright 2026 The Provledger Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package provmodel

// Codec serializes and deserializes a Document. Real PROV-XML/JSON/PROV-N
// serialization is treated as an external collaborator; this interface is
// the narrow seam pkg/builder and pkg/docview program against, and
// pkg/provmodel/jsoncodec supplies the one concrete implementation this
// module ships so the CLI and tests are runnable end to end.
type Codec interface {
	// Name identifies the format, e.g. "json", "xml", "provn".
	Name() string
	// Encode serializes doc.
	Encode(doc *Document) ([]byte, error)
	// Decode deserializes a document. A Codec that cannot decode its format
	// (PROV-N has no widely used deserializer) returns ErrDecodeUnsupported.
	Decode(data []byte) (*Document, error)
}

// ErrDecodeUnsupported is returned by Codec.Decode implementations that are
// serialize-only, e.g. a PROV-N codec.
var ErrDecodeUnsupported = decodeUnsupportedError{}

type decodeUnsupportedError struct{}

func (decodeUnsupportedError) Error() string {
	return "this document format has no deserializer"
}
