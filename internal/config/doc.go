// Package config loads the pagewire project file.
//
// The project file lives at the project root as pagewire.json or
// pagewire.yaml (pagewire.yml is accepted too). When several exist the
// JSON file wins. A minimal file only names the adapter:
//
//	{
//	  "name": "demo",
//	  "adapter": "react"
//	}
//
// Everything else has a default (see New). A fuller YAML file:
//
//	name: demo
//	adapter: vue
//	addr: ":8080"
//	title: Demo
//	alwaysInclude: [user, flash]
//	assets:
//	  manifest: public/build/manifest.json
//	  prefix: /build
//	dev:
//	  enabled: true
//	  reload: true
//	  pollInterval: 250ms
//	metrics:
//	  enabled: true
//	  path: /metrics
//
// Assets can also come from S3 (assets.s3.bucket, assets.s3.key,
// assets.s3.region), in which case assets.manifest is ignored. An explicit
// version overrides the manifest-derived asset version.
package config
