package cache

// BoltDB bucket names
const (
	BucketPosts     = "posts"     // {file name} -> PostRecord
	BucketArtifacts = "artifacts" // {kind}:{inputHash} -> Artifact
	BucketMeta      = "meta"      // schema_version, cache_id
	BucketStats     = "stats"     // build_count, last_prune

	KeySchemaVersion = "schema_version"
	KeyCacheID       = "cache_id"
	KeyBuildCount    = "build_count"
	KeyLastPrune     = "last_prune"
)

// Artifact kinds
const (
	KindDiagram    = "d2"
	KindSocialCard = "social"
)

// AllBuckets returns all bucket names for initialization
func AllBuckets() []string {
	return []string{
		BucketPosts,
		BucketArtifacts,
		BucketMeta,
		BucketStats,
	}
}
