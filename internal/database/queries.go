/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// User queries
	queryInsertUser = `
		INSERT INTO users (id, username, twitter, created_at) VALUES (?, ?, ?, ?)`

	queryGetUserById = `
		SELECT id, username, twitter, created_at
		FROM users
		WHERE id = ?`

	queryGetUserByUsername = `
		SELECT id, username, twitter, created_at
		FROM users
		WHERE LOWER(username) = LOWER(?)`

	// Profile queries
	profileColumns = `
		p.id, p.user_id, p.name, p.bio, p.avatar, p.chat_price, p.is_active, p.earnings,
		p.chats_received, p.current_week_chats, p.previous_week_chats, p.version,
		p.created_at, p.updated_at`

	queryInsertProfile = `
		INSERT INTO profiles (id, user_id, name, bio, avatar, chat_price, is_active, earnings,
			chats_received, current_week_chats, previous_week_chats, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, '0', 0, 0, 0, 1, ?, ?)`

	queryGetProfileById = `
		SELECT` + profileColumns + `
		FROM profiles p
		WHERE p.id = ?`

	queryGetProfileByUserId = `
		SELECT` + profileColumns + `, u.username, u.twitter
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?`

	queryUpdateProfileDetails = `
		UPDATE profiles
		SET name = ?, bio = ?, avatar = ?, chat_price = ?, version = version + 1, updated_at = ?
		WHERE user_id = ?`

	queryUpdateProfileCounters = `
		UPDATE profiles
		SET earnings = ?, chats_received = ?, current_week_chats = ?, previous_week_chats = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	// queryProfilesBase is completed by buildProfileWhere and profileOrderBy
	queryProfilesBase = `
		SELECT` + profileColumns + `, u.username, u.twitter
		FROM profiles p
		JOIN users u ON u.id = p.user_id`

	queryCountProfilesBase = `
		SELECT COUNT(1)
		FROM profiles p
		JOIN users u ON u.id = p.user_id`

	// Chat ledger queries
	queryUpsertChatRecord = `
		INSERT INTO chat_records (id, profile_id, day, count, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(profile_id, day) DO UPDATE SET count = count + 1, updated_at = excluded.updated_at`

	queryGetChatRecord = `
		SELECT id, profile_id, day, count, created_at, updated_at
		FROM chat_records
		WHERE profile_id = ? AND day = ?`

	queryGetChatRecordsInRange = `
		SELECT id, profile_id, day, count, created_at, updated_at
		FROM chat_records
		WHERE profile_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC`

	// Message queries
	queryInsertMessage = `
		INSERT INTO messages (id, sender_id, recipient_id, subject, content, is_read, reply_to, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`

	messageColumns = `
		m.id, m.sender_id, m.recipient_id, m.subject, m.content, m.is_read, m.reply_to, m.created_at,
		s.username AS sender_username, r.username AS recipient_username`

	queryGetMessage = `
		SELECT` + messageColumns + `
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users r ON r.id = m.recipient_id
		WHERE m.id = ?`

	queryListInbox = `
		SELECT` + messageColumns + `
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users r ON r.id = m.recipient_id
		WHERE m.recipient_id = ?
		ORDER BY m.created_at DESC, m.id`

	queryListSent = `
		SELECT` + messageColumns + `
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users r ON r.id = m.recipient_id
		WHERE m.sender_id = ?
		ORDER BY m.created_at DESC, m.id`

	queryMarkMessageRead = `
		UPDATE messages SET is_read = 1 WHERE id = ? AND is_read = 0`

	queryDeleteMessage = `
		DELETE FROM messages WHERE id = ?`

	queryCountUnread = `
		SELECT COUNT(1) FROM messages WHERE recipient_id = ? AND is_read = 0`

	// Maintenance
	queryOptimize = `PRAGMA optimize`
	queryVacuum   = `VACUUM`
)
