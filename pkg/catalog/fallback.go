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

package catalog

// fallbackVOD is served by /vod when the portal cannot be reached, so the
// UI still has categories to show.
var fallbackVOD = []struct {
	id, title, alias string
	censored         int
}{
	{"5", "HINDI TV SHOWS", "HINDI_TV_SHOWS", 0},
	{"6", "HINDI WEB SERIES", "HINDI_WEB_SERIES", 0},
	{"63", "HINDI MOVIES | CAM", "HINDI_MOVIES__CAM_PREDVD", 0},
	{"1", "HINDI MOVIES | LATEST", "HINDI_MOVIES__LATEST", 0},
	{"75", "HINDI MOVIES | 4K", "HINDI_MOVIES__4K", 0},
	{"2", "HINDI MOVIES | COLLECTION", "HINDI_MOVIES__COLLECTION", 0},
	{"44", "HINDI MOVIES | ENG SUBTITLE", "HINDI_MOVIES__ENG_SUBS", 0},
	{"3", "HINDI DUB | SOUTH MOVIES", "HINDI_MOVIES__SOUTH_DUB", 0},
	{"82", "HINDI DUB | SOUTH MOVIES 4K", "HINDI_DUB__SOUTH_MOVIES_4K", 0},
	{"4", "HINDI DUB | ENGLISH MOVIES", "HINDI_MOVIES__ENG_DUB", 0},
	{"7", "HINDI DUB | ENGLISH SERIES", "HINDI_WEB_SERIES__ENG_DUB", 0},
	{"58", "HINDI DUB | K-DRAMAS", "HINDI_DUB_K-DRAMAS", 0},
	{"61", "HINDI DUB | ANIME", "HINDI_DUB__ANIME", 0},
	{"59", "HINDI RELIGIOUS", "HINDI_RELIGIOUS", 0},
	{"62", "HINDI WEB SERIES (18+)", "HINDI_WEB_SERIES_18", 0},
	{"64", "PUNJABI MOVIES | CAM", "PUNJABI_MOVIES__CAM_PREDVD", 0},
	{"8", "PUNJABI MOVIES | LATEST", "PUNJAB_MOVIES", 0},
	{"76", "PUNJABI MOVIES | 4K", "PUNJABI_MOVIES__4K", 0},
	{"49", "PUNJABI MOVIES | COLLECTION", "PUNJABI_MOVIES__COLLECTION", 0},
	{"9", "PUNJABI TV SHOW", "PUNJABI_TV_SHOW", 0},
	{"10", "PUNJABI WEB SERIES", "PUNJABI_WEB_SERIES", 0},
	{"11", "PUNJABI RELIGIOUS", "PUNJABI_RELIGIOUS", 0},
	{"65", "ENGLISH MOVIES | CAM", "ENGLISH_MOVIES__CAM_PREDVD", 0},
	{"12", "ENGLISH MOVIES | LATEST", "ENGLISH_MOVIES__LATEST", 0},
	{"77", "ENGLISH MOVIES | 4K", "ENGLISH_MOVIES__4K", 0},
	{"13", "ENGLISH MOVIES | COLLECTION", "ENGLISH_MOVIES__COLLECTION", 0},
	{"14", "ENGLISH DOCU | MOVIES", "ENGLISH_DOCUMENTARIES", 0},
	{"84", "ENGLISH DOCU | SERIES", "ENGLISH_DOCUMENTARIES__SERIES", 0},
	{"15", "ENGLISH TV SHOW", "ENGLISH_TV_SHOW", 0},
	{"45", "ENGLISH WEB SERIES", "ENGLISH_WEB_SERIES", 0},
	{"60", "K-DRAMAS COLLECTION", "ENGLISH_DUB__K-DRAMAS", 0},
	{"46", "ANIME COLLECTION", "ANIME_MOVIESSERIES", 0},
	{"66", "KIDS MOVIES | CAM", "KIDS_MOVIES__CAM_PREDVD", 0},
	{"16", "KIDS MOVIES", "KIDS_MOVIES", 0},
	{"88", "KIDS MOVIES | 4K", "KIDS_MOVIES_4K", 0},
	{"47", "KIDS TV SHOW", "KIDS_TV_SHOW", 0},
	{"48", "KIDS HINDI COLLECTION", "KIDS_HINDI_MOVIESSHOW", 0},
	{"18", "URDU MOVIES", "URDU_MOVIES", 0},
	{"19", "URDU TV SHOWS | DRAMAS", "URDU_TV_SHOWS", 0},
	{"20", "URDU STAGE SHOWS", "URDU_STAGE_SHOWS", 0},
	{"67", "GUJARATI MOVIES | CAM", "GUJARATI_MOVIES__CAM_PREDVD", 0},
	{"21", "GUJARATI MOVIES", "GUJARATI_MOVIES", 0},
	{"85", "GUJARATI MOVIES 4K", "GUJARATI_MOVIES_4K", 0},
	{"22", "GUJARATI TV SHOWS", "GUJARATI_TV_SHOWS", 0},
	{"23", "GUJARATI WEB SERIES", "GUJARATI_WEB_SERIES", 0},
	{"68", "BENGALI MOVIES | CAM", "BENGALI_MOVIES__CAM_PREDVD", 0},
	{"24", "BENGALI MOVIES", "BENGALI_MOVIES", 0},
	{"87", "BENGALI MOVIES 4K", "BENGALI_MOVIES_4K", 0},
	{"25", "BENGALI TV SHOWS", "BENGALI_TV_SHOWS", 0},
	{"26", "BENGALI WEB SERIES", "BENGALI_WEB_SERIES", 0},
	{"69", "TAMIL MOVIES | CAM", "TAMIL_MOVIES__CAM_PREDVD", 0},
	{"27", "TAMIL MOVIES | LATEST", "TAMIL_MOVIES", 0},
	{"78", "TAMIL MOVIES | 4K", "TAMIL_MOVIES__4K", 0},
	{"50", "TAMIL MOVIES COLLECTION", "TAMIL_MOVIES_COLLECTION", 0},
	{"51", "TAMIL DUB MOVIES", "TAMIL_DUB_MOVIES", 0},
	{"28", "TAMIL TV SHOWS", "TAMIL_TV_SHOWS", 0},
	{"29", "TAMIL WEB SERIES", "TAMIL_WEB_SERIES", 0},
	{"70", "TELUGU MOVIES | CAM", "TELUGU_MOVIES__CAM_PREDVD", 0},
	{"30", "TELUGU MOVIES | LATEST", "TELUGU_MOVIES", 0},
	{"79", "TELUGU MOVIES | 4K", "TELUGU_MOVIES__4K", 0},
	{"52", "TELUGU MOVIES | COLLECTION", "TELUGU_MOVIES__COLLECTION", 0},
	{"53", "TELUGU DUB MOVIES", "TELUGU_DUB_MOVIES", 0},
	{"31", "TELUGU TV SHOWS", "TELUGU_TV_SHOWS", 0},
	{"32", "TELUGU WEB SERIES", "TELUGU_WEB_SERIES", 0},
	{"71", "MALAYALAM MOVIES | CAM", "MALAYALAM_MOVIES__CAM_PREDVD", 0},
	{"33", "MALAYALAM MOVIES | LATEST", "MALAYALAM_MOVIES", 0},
	{"80", "MALAYALAM MOVIES | 4K", "MALAYALAM_MOVIES__4K", 0},
	{"54", "MALAYALAM MOVIES | COLLECTION", "MALAYALAM_MOVIES__COLLECTION", 0},
	{"55", "MALAYALAM DUB MOVIES", "MALAYALAM_DUB_MOVIES", 0},
	{"34", "MALAYALAM TV SHOWS", "MALAYALAM_TV_SHOWS", 0},
	{"35", "MALAYALAM WEB SERIES", "MALAYALAM_WEB_SERIES", 0},
	{"72", "KANNADA MOVIES | CAM", "KANNADA_MOVIES__CAM_PREDVD", 0},
	{"36", "KANNADA MOVIES | LATEST", "KANNADA_MOVIES", 0},
	{"81", "KANNADA MOVIES | 4K", "KANNADA_MOVIES__4K", 0},
	{"56", "KANNADA MOVIES | COLLECTION", "KANNADA_MOVIES__COLLECTION", 0},
	{"57", "KANNADA DUB MOVIES", "KANNADA_DUB_MOVIES", 0},
	{"37", "KANNADA TV SHOWS", "KANNADA_TV_SHOWS", 0},
	{"38", "KANNADA WEB SERIES", "KANNADA_WEB_SERIES", 0},
	{"73", "MARATHI MOVIES | CAM", "MARATHI_MOVIES__CAM_PREDVD", 0},
	{"39", "MARATHI MOVIES", "MARATHI_MOVIES", 0},
	{"86", "MARATHI MOVIES | 4K", "MARATHI_MOVIES_4K", 0},
	{"40", "MARATHI TV SHOWS", "MARATHI_TV_SHOWS", 0},
	{"41", "MARATHI WEB SERIES", "MARATHI_WEB_SERIES", 0},
	{"89", "FRENCH MOVIES", "FRENCH_MOVIES", 0},
	{"90", "FRENCH MOVIES | 4K", "FRENCH_MOVIES_4K", 0},
	{"91", "FRENCH SERIES", "FRENCH_SERIES", 0},
	{"92", "SPANISH MOVIES", "SPANISH_MOVIES", 0},
	{"93", "SPANISH MOVIES | 4K", "SPANISH_MOVIES__4K", 0},
	{"94", "SPANISH SERIES", "SPANISH_SERIES", 0},
	{"17", "SPORTS - PPV EVENTS", "KIDS_NURSERY_RHYMES", 0},
	{"43", "SPORTS - CRICKET", "TURKISH_SERIES", 0},
	{"83", "ADULTS", "ADULTS", 1},
}

// FallbackVODCategories returns the built-in VOD category list with
// placeholder posters.
func FallbackVODCategories() []Category {
	out := make([]Category, 0, len(fallbackVOD))
	for _, f := range fallbackVOD {
		censored := f.censored
		out = append(out, Category{
			ID:       f.id,
			Title:    f.title,
			Alias:    f.alias,
			Censored: &censored,
			Poster:   PlaceholderPoster(f.title),
		})
	}
	return out
}
