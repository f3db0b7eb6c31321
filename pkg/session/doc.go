/*
Package session implements session management and persistence orchestration.

It serializes access to one player's game so that concurrent requests carrying the
same session cookie (two browser tabs, a double click) cannot lose a flip. Locks are
held in process and, when configured, mirrored by a distributed locker shared by
every replica.
*/
package session
