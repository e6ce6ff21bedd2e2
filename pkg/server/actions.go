/*
 * stream-share is a project to efficiently share the use of an IPTV service.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package server

import (
	"strconv"

	"github.com/lucasduport/stalker-share/pkg/config"
	"github.com/lucasduport/stalker-share/pkg/portal"
)

// Ordered list requests, with the parameters MAG boxes send.

func channelListAction(genre string) portal.Action {
	return portal.NewAction(portal.ActionGetOrderedList, portal.TypeITV,
		"genre", genre,
		"max_page_items", strconv.Itoa(config.DefaultPageSize),
		"force_ch_link_check", "",
		"fav", "0",
		"sortby", "number",
		"hd", "0",
		"from_ch_id", "0",
	)
}

func radioListAction(genre string) portal.Action {
	return portal.NewAction(portal.ActionGetOrderedList, portal.TypeRadio,
		"genre", genre,
		"max_page_items", strconv.Itoa(config.DefaultPageSize),
		"sortby", "number",
		"fav", "0",
	)
}

// contentListAction lists a vod or series category.
func contentListAction(contentType, category string) portal.Action {
	return seriesAction(contentType, "0", category, "0", "0")
}

// seriesAction addresses a series, one of its seasons or one episode.
// movieID is "0" for a whole category.
func seriesAction(contentType, movieID, category, seasonID, episodeID string) portal.Action {
	return portal.NewAction(portal.ActionGetOrderedList, contentType,
		"movie_id", movieID,
		"category", category,
		"season_id", seasonID,
		"episode_id", episodeID,
		"force_ch_link_check", "",
		"from_ch_id", "0",
		"fav", "0",
		"sortby", "added",
		"hd", "0",
		"not_ended", "0",
	)
}

func seriesMovieID(seriesID string) string {
	return seriesID + ":" + seriesID
}

func searchAction(contentType, query string) portal.Action {
	if contentType == portal.TypeITV {
		return portal.NewAction(portal.ActionGetAllChannels, portal.TypeITV, "search", query)
	}
	return portal.NewAction(portal.ActionGetOrderedList, contentType,
		"search", query,
		"sortby", "added",
		"p", "1",
	)
}
