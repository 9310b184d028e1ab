// Package domain contains the order schemas, compatibility issues and report
// types shared by ordercompat.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML
// parsing, net/http, or the filesystem. Infra/adapters map into/from these types.
package domain
