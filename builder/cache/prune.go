package cache

import (
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

// PruneResult contains statistics from a Prune run
type PruneResult struct {
	DeletedRecords int
	DeletedBlobs   int
	LiveBlobs      int
	Duration       time.Duration
}

// Prune removes post records for Documents that no longer exist and then
// deletes every blob no record references. live reports whether a file name
// is still part of the content store.
func (m *Manager) Prune(live func(name string) bool) (PruneResult, error) {
	start := time.Now()
	var result PruneResult

	referenced := map[string]map[string]bool{
		NamespaceBodies:    {},
		NamespaceArtifacts: {},
	}

	err := m.db.Update(func(tx *bolt.Tx) error {
		posts := tx.Bucket([]byte(BucketPosts))
		var stale [][]byte
		err := posts.ForEach(func(k, v []byte) error {
			if !live(string(k)) {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			var rec PostRecord
			if err := Decode(v, &rec); err != nil {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			if rec.BodyHash != "" {
				referenced[NamespaceBodies][rec.BodyHash] = true
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := posts.Delete(k); err != nil {
				return err
			}
		}
		result.DeletedRecords = len(stale)

		err = tx.Bucket([]byte(BucketArtifacts)).ForEach(func(_, v []byte) error {
			var art Artifact
			if err := Decode(v, &art); err == nil {
				referenced[NamespaceArtifacts][art.OutputHash] = true
			}
			return nil
		})
		if err != nil {
			return err
		}

		v := make([]byte, 8)
		binary.BigEndian.PutUint64(v, uint64(time.Now().Unix()))
		return tx.Bucket([]byte(BucketStats)).Put([]byte(KeyLastPrune), v)
	})
	if err != nil {
		return result, err
	}

	for namespace, refs := range referenced {
		hashes, err := m.store.ListHashes(namespace)
		if err != nil {
			return result, err
		}
		for _, h := range hashes {
			if refs[h] {
				result.LiveBlobs++
				continue
			}
			m.store.Delete(namespace, h)
			result.DeletedBlobs++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
