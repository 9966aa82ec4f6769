// Package browse drives paginated GitHub listings for a presentation layer.
//
// A controller owns one logical list (users, or one user's repositories),
// fetches it a page at a time and publishes snapshots of its State. Failures
// never escape as errors from the controller methods; they are delivered once
// on the controller's ErrorEvents channel.
package browse
