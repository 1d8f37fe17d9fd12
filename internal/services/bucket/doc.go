// Package bucket abstracts blob storage for generated audio and submitted
// documents. Two backends exist: a Supabase Storage bucket for production
// and a plain directory for local runs. Uploads are upserts, so reprocessing
// the same document never fails on an existing object.
package bucket
