// Copyright © 2018 One Concern

package model

import (
	"encoding/hex"

	jsoniter "github.com/json-iterator/go"
	blake2b "github.com/minio/blake2b-simd"
)

// UpdateRecord is the "rpm.advisory" content type: an update advisory, as
// published in the updateinfo metadata of a repository.
//
// Records are identified by the digest of their whole content, collections and
// references included, so that two records with the same id but different
// content are different units.
type UpdateRecord struct {
	PK     string `json:"pk" yaml:"pk,omitempty"`
	Digest string `json:"digest" yaml:"digest,omitempty"`

	ID          string `json:"id" yaml:"id"`
	UpdatedDate string `json:"updated_date" yaml:"updated_date"`

	Description string `json:"description" yaml:"description,omitempty"`
	IssuedDate  string `json:"issued_date" yaml:"issued_date,omitempty"`
	FromStr     string `json:"fromstr" yaml:"fromstr,omitempty"`
	Status      string `json:"status" yaml:"status,omitempty"`
	Title       string `json:"title" yaml:"title,omitempty"`
	Summary     string `json:"summary" yaml:"summary,omitempty"`
	Version     string `json:"version" yaml:"version,omitempty"`
	Type        string `json:"type" yaml:"type,omitempty"`
	Severity    string `json:"severity" yaml:"severity,omitempty"`
	Solution    string `json:"solution" yaml:"solution,omitempty"`
	Release     string `json:"release" yaml:"release,omitempty"`
	Rights      string `json:"rights" yaml:"rights,omitempty"`
	PushCount   string `json:"pushcount" yaml:"pushcount,omitempty"`

	Collections []UpdateCollection `json:"collections,omitempty" yaml:"collections,omitempty"`
	References  []UpdateReference  `json:"references,omitempty" yaml:"references,omitempty"`
}

// UpdateCollection is a named set of packages fixed by an advisory
type UpdateCollection struct {
	Name      string                    `json:"name" yaml:"name"`
	ShortName string                    `json:"shortname" yaml:"shortname,omitempty"`
	Packages  []UpdateCollectionPackage `json:"packages,omitempty" yaml:"packages,omitempty"`
}

// UpdateCollectionPackage is a package of an update collection
type UpdateCollectionPackage struct {
	Name            string `json:"name" yaml:"name"`
	Epoch           string `json:"epoch" yaml:"epoch,omitempty"`
	Version         string `json:"version" yaml:"version"`
	Release         string `json:"release" yaml:"release"`
	Arch            string `json:"arch" yaml:"arch"`
	Filename        string `json:"filename" yaml:"filename,omitempty"`
	Sum             string `json:"sum" yaml:"sum,omitempty"`
	SumType         string `json:"sum_type" yaml:"sum_type,omitempty"`
	Src             string `json:"src" yaml:"src,omitempty"`
	RebootSuggested bool   `json:"reboot_suggested" yaml:"reboot_suggested,omitempty"`
}

// UpdateReference points at more information about the problem an advisory solves
type UpdateReference struct {
	Href    string `json:"href" yaml:"href"`
	RefID   string `json:"ref_id" yaml:"ref_id,omitempty"`
	Title   string `json:"title" yaml:"title,omitempty"`
	RefType string `json:"ref_type" yaml:"ref_type,omitempty"`
}

// ComputeDigest hashes the record content. PK and Digest do not take part.
func (u UpdateRecord) ComputeDigest() (string, error) {
	u.PK, u.Digest = "", ""
	u.Collections = copyCollections(u.Collections)
	for i := range u.Collections {
		for j := range u.Collections[i].Packages {
			// an absent epoch is epoch 0
			if u.Collections[i].Packages[j].Epoch == "" {
				u.Collections[i].Packages[j].Epoch = "0"
			}
		}
	}
	data, err := jsoniter.Marshal(u)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// NaturalKey returns the primary key derived from the digest
func (u UpdateRecord) NaturalKey() string {
	return NaturalKey(TypeAdvisory, u.Digest)
}

// Identify sets the digest and primary key of the record
func (u *UpdateRecord) Identify() error {
	digest, err := u.ComputeDigest()
	if err != nil {
		return err
	}
	u.Digest = digest
	u.PK = u.NaturalKey()
	return nil
}

// Content returns the content unit for this advisory
func (u UpdateRecord) Content() Content {
	return Content{PK: u.PK, Type: TypeAdvisory}
}

func copyCollections(in []UpdateCollection) []UpdateCollection {
	if in == nil {
		return nil
	}
	out := make([]UpdateCollection, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Packages = append([]UpdateCollectionPackage(nil), c.Packages...)
	}
	return out
}
